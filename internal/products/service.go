package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	storecache "github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/internal/overview"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	repo  Repository
	cache *storecache.Manager
}

// NewService builds a products service. The cache manager may be nil, in
// which case every read goes to the database.
func NewService(repo Repository, cacheManager *storecache.Manager) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, cache: cacheManager}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return storecache.GetOrCompute(ctx, s.cache, keyByID(id), storecache.TTLMedium,
		func(ctx context.Context) (*models.Product, error) {
			return s.findOne(ctx, func(ctx context.Context) (*models.Product, error) {
				return s.repo.FindByID(ctx, id)
			})
		})
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	return storecache.GetOrCompute(ctx, s.cache, keyBySlug(slug), storecache.TTLMedium,
		func(ctx context.Context) (*models.Product, error) {
			return s.findOne(ctx, func(ctx context.Context) (*models.Product, error) {
				return s.repo.FindBySlug(ctx, slug)
			})
		})
}

func (s *service) findOne(ctx context.Context, find func(context.Context) (*models.Product, error)) (*models.Product, error) {
	product, err := find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// Catalog lists every product. Cached long: the full catalog changes rarely
// and every write invalidates it anyway.
func (s *service) Catalog(ctx context.Context) ([]models.Product, error) {
	return storecache.GetOrCompute(ctx, s.cache, keyCatalog(), storecache.TTLLong,
		func(ctx context.Context) ([]models.Product, error) {
			products, err := s.repo.ListCatalog(ctx)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog")
			}
			return products, nil
		})
}

// SearchAvailable serves the storefront listing. Parameters are normalized
// before the cache key is built so equivalent queries share an entry.
func (s *service) SearchAvailable(ctx context.Context, params SearchParams) ([]models.Product, error) {
	params = normalizeSearch(params)
	return storecache.GetOrCompute(ctx, s.cache, keySearch(params), storecache.TTLShort,
		func(ctx context.Context) ([]models.Product, error) {
			products, err := s.repo.SearchAvailable(ctx, params)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching products")
			}
			return products, nil
		})
}

// Update patches the product and then performs the invalidation fan-out: the
// id key, the slug key (old and new when the slug changes), every list
// parameterization by prefix, and the admin overview that aggregates over
// product data.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	existing, err := s.findOne(ctx, func(ctx context.Context) (*models.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	// the repo may hand back shared state that the update mutates in place
	oldSlug := existing.Slug

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	keys := []string{keyByID(id), keyBySlug(oldSlug)}
	if input.Slug != nil && *input.Slug != oldSlug {
		keys = append(keys, keyBySlug(*input.Slug))
	}
	keys = append(keys, overview.MetricsCacheKey())
	s.cache.Invalidate(ctx, keys...)
	s.cache.InvalidatePrefix(ctx, prefixSearch())
	s.cache.InvalidatePrefix(ctx, prefixCatalog())

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading product")
	}
	return updated, nil
}

func buildUpdates(input UpdateProductInput) (map[string]any, error) {
	updates := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must not be empty")
		}
		updates["slug"] = slug
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	return updates, nil
}

func normalizeSearch(params SearchParams) SearchParams {
	params.Query = strings.TrimSpace(params.Query)
	params.CategoryID = strings.TrimSpace(params.CategoryID)
	if _, ok := searchSortColumns[params.SortBy]; !ok {
		params.SortBy = "name"
	}
	if !strings.EqualFold(params.SortDir, "desc") {
		params.SortDir = "asc"
	} else {
		params.SortDir = "desc"
	}
	return params
}
