package overview

import (
	"context"
	"fmt"
	"time"

	storecache "github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// StatusMetrics is one row of the admin overview: order count and revenue
// for a single status.
type StatusMetrics struct {
	Status       enums.OrderStatus `json:"status"`
	Orders       int64             `json:"orders"`
	RevenueCents int64             `json:"revenueCents"`
}

// Metrics is the denormalized admin snapshot served by GET /admin/overview.
type Metrics struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalRevenueCents int64           `json:"totalRevenueCents"`
	ByStatus          []StatusMetrics `json:"byStatus"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

// Repository defines the aggregation queries behind the overview.
type Repository interface {
	AggregateOrdersByStatus(ctx context.Context) ([]StatusMetrics, error)
}

// Service computes the admin overview, cached under the short TTL class so
// the aggregate never lags the order stream by more than a few minutes even
// when an invalidation is missed.
type Service interface {
	Get(ctx context.Context) (*Metrics, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an overview repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AggregateOrdersByStatus(ctx context.Context) ([]StatusMetrics, error) {
	var rows []StatusMetrics
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, COALESCE(SUM(total_cents), 0) AS revenue_cents").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type service struct {
	repo  Repository
	cache *storecache.Manager
}

// NewService builds the overview service. The cache manager may be nil.
func NewService(repo Repository, cacheManager *storecache.Manager) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("overview repository required")
	}
	return &service{repo: repo, cache: cacheManager}, nil
}

func (s *service) Get(ctx context.Context) (*Metrics, error) {
	return storecache.GetOrCompute(ctx, s.cache, MetricsCacheKey(), storecache.TTLShort, s.compute)
}

func (s *service) compute(ctx context.Context) (*Metrics, error) {
	rows, err := s.repo.AggregateOrdersByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating orders")
	}

	metrics := &Metrics{ByStatus: rows, GeneratedAt: time.Now().UTC()}
	for _, row := range rows {
		metrics.TotalOrders += row.Orders
		metrics.TotalRevenueCents += row.RevenueCents
	}
	return metrics, nil
}
