package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeValidation)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("validation errors should allow details")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("MYSTERY"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "load cart")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "order missing")
	outer := fmt.Errorf("submit: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad payload").WithDetails(map[string]string{"quantity": "must be at least 1"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["quantity"] == "" {
		t.Fatal("expected quantity detail")
	}
}
