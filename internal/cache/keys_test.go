package cache

import (
	"strings"
	"testing"
)

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("products", "available", map[string]string{"q": "shoes", "categoryId": "c1", "sortBy": "price"})
	b := Key("products", "available", map[string]string{"sortBy": "price", "categoryId": "c1", "q": "shoes"})
	if a != b {
		t.Fatalf("expected identical keys, got %q vs %q", a, b)
	}
	if a != "products:available:categoryId=c1&q=shoes&sortBy=price" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestKeySharesInvalidationPrefix(t *testing.T) {
	prefix := Prefix("products", "available")
	for _, params := range []map[string]string{
		nil,
		{"q": "shoes"},
		{"categoryId": "c1", "sortDir": "desc"},
	} {
		key := Key("products", "available", params)
		if !strings.HasPrefix(key, prefix) {
			t.Fatalf("key %q not covered by prefix %q", key, prefix)
		}
	}
}

func TestKeyWithoutQualifier(t *testing.T) {
	if got := Key("overview", "", nil); got != "overview" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Prefix("overview", ""); got != "overview" {
		t.Fatalf("unexpected prefix %q", got)
	}
}
