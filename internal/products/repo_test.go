package products

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:products_repo_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  category_id TEXT,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	slugIdx := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug ON products (slug);`

	for _, stmt := range []string{products, slugIdx} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	require.NoError(t, conn.Exec("DELETE FROM products").Error)

	return conn
}

func seedProduct(t *testing.T, repo Repository, slug string, priceCents int, available bool, categoryID *uuid.UUID) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		Slug:       slug,
		Name:       slug,
		PriceCents: priceCents,
		Available:  available,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}

func TestRepositoryFindByIDAndSlug(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	created := seedProduct(t, repo, "blue-shirt", 2500, true, nil)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue-shirt", byID.Slug)

	bySlug, err := repo.FindBySlug(ctx, "blue-shirt")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = repo.FindBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreatePersistsUnavailable(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	// false must survive the insert despite the column default of true
	created := seedProduct(t, repo, "hidden-shirt", 900, false, nil)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.Available)
}

func TestRepositoryDuplicateSlugRejected(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))

	seedProduct(t, repo, "dup-slug", 100, true, nil)
	_, err := repo.Create(context.Background(), &models.Product{Slug: "dup-slug", Name: "other", PriceCents: 200})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositorySearchAvailable(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	categoryID := uuid.New()
	seedProduct(t, repo, "alpha-shoe", 3000, true, &categoryID)
	seedProduct(t, repo, "beta-shoe", 1000, true, nil)
	seedProduct(t, repo, "gamma-shoe", 2000, false, nil)
	seedProduct(t, repo, "delta-hat", 500, true, nil)

	shoes, err := repo.SearchAvailable(ctx, SearchParams{Query: "shoe", SortBy: "price", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, shoes, 2, "unavailable products must be excluded")
	assert.Equal(t, "beta-shoe", shoes[0].Slug)
	assert.Equal(t, "alpha-shoe", shoes[1].Slug)

	inCategory, err := repo.SearchAvailable(ctx, SearchParams{CategoryID: categoryID.String()})
	require.NoError(t, err)
	require.Len(t, inCategory, 1)
	assert.Equal(t, "alpha-shoe", inCategory[0].Slug)

	all, err := repo.SearchAvailable(ctx, SearchParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryUpdate(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()

	created := seedProduct(t, repo, "old-slug", 1000, true, nil)

	affected, err := repo.Update(ctx, created.ID, map[string]any{"slug": "new-slug", "price_cents": 1234})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-slug", updated.Slug)
	assert.Equal(t, 1234, updated.PriceCents)

	affected, err = repo.Update(ctx, uuid.New(), map[string]any{"name": "ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
