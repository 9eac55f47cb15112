package products

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var searchSortColumns = map[string]string{
	"name":      "name",
	"price":     "price_cents",
	"createdAt": "created_at",
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListCatalog(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) SearchAvailable(ctx context.Context, params SearchParams) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("available = ?", true)

	if trimmed := strings.TrimSpace(params.Query); trimmed != "" {
		query = query.Where("name LIKE ?", "%"+trimmed+"%")
	}
	if params.CategoryID != "" {
		categoryID, err := uuid.Parse(params.CategoryID)
		if err == nil {
			query = query.Where("category_id = ?", categoryID)
		}
	}

	column, ok := searchSortColumns[params.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.EqualFold(params.SortDir, "desc") {
		direction = "DESC"
	}

	var products []models.Product
	if err := query.Order(column + " " + direction).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}
