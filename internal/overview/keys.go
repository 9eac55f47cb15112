package overview

import "github.com/angelmondragon/storefront-backend/internal/cache"

// MetricsCacheKey is the stable key for the admin overview snapshot. Order
// and product write paths invalidate it directly.
func MetricsCacheKey() string {
	return cache.Key("admin", "overview", nil)
}
