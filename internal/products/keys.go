package products

import (
	"github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/google/uuid"
)

func keyByID(id uuid.UUID) string {
	return cache.Key("products", "id", map[string]string{"id": id.String()})
}

func keyBySlug(slug string) string {
	return cache.Key("products", "slug", map[string]string{"slug": slug})
}

func keyCatalog() string {
	return cache.Key("products", "catalog", nil)
}

func keySearch(params SearchParams) string {
	return cache.Key("products", "available", map[string]string{
		"q":          params.Query,
		"categoryId": params.CategoryID,
		"sortBy":     params.SortBy,
		"sortDir":    params.SortDir,
	})
}

func prefixSearch() string {
	return cache.Prefix("products", "available")
}

func prefixCatalog() string {
	return cache.Prefix("products", "catalog")
}
