package cache

import (
	"sort"
	"strings"
)

// Key builds a deterministic cache key from an entity, a qualifier, and
// query parameters. Parameters are sorted so equal queries always map to
// the same key, and every parameterization of a list shares the
// "entity:qualifier" prefix that writers invalidate.
//
// Example: Key("products", "available", map[string]string{"q": "shoes",
// "categoryId": "c1"}) -> "products:available:categoryId=c1&q=shoes".
func Key(entity, qualifier string, params map[string]string) string {
	parts := []string{entity}
	if qualifier != "" {
		parts = append(parts, qualifier)
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+params[name])
		}
		parts = append(parts, strings.Join(pairs, "&"))
	}
	return strings.Join(parts, ":")
}

// Prefix builds the invalidation prefix covering every parameterization of
// Key(entity, qualifier, ...).
func Prefix(entity, qualifier string) string {
	if qualifier == "" {
		return entity
	}
	return entity + ":" + qualifier
}
