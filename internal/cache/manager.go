package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// TTLClass groups cache entries by volatility.
type TTLClass string

const (
	// TTLShort covers volatile lists and aggregates.
	TTLShort TTLClass = "short"
	// TTLMedium covers single entities.
	TTLMedium TTLClass = "medium"
	// TTLLong covers rarely-changing catalogs.
	TTLLong TTLClass = "long"
)

// Manager is the read-through cache in front of read-heavy queries. Every
// store failure degrades to a miss or a no-op: the compute path stays the
// sole source of truth and a request never fails because the cache is down.
type Manager struct {
	store Store
	cfg   config.CacheConfig
	logg  *logger.Logger
}

// NewManager builds a coherence manager over the provided store.
func NewManager(store Store, cfg config.CacheConfig, logg *logger.Logger) *Manager {
	return &Manager{store: store, cfg: cfg, logg: logg}
}

func (m *Manager) ttlFor(class TTLClass) time.Duration {
	switch class {
	case TTLMedium:
		return m.cfg.MediumTTL
	case TTLLong:
		return m.cfg.LongTTL
	default:
		return m.cfg.ShortTTL
	}
}

// Invalidate removes the exact keys. Errors are logged, never returned:
// the worst case is an extra recompute after the TTL would have fired.
func (m *Manager) Invalidate(ctx context.Context, keys ...string) {
	if m == nil || m.store == nil || len(keys) == 0 {
		return
	}
	if err := m.store.Delete(ctx, keys...); err != nil {
		m.warn(ctx, "cache.invalidate failed", err)
	}
}

// InvalidatePrefix removes every key under the prefix, covering list keys
// whose parameterizations the writer cannot enumerate.
func (m *Manager) InvalidatePrefix(ctx context.Context, prefix string) {
	if m == nil || m.store == nil || prefix == "" {
		return
	}
	if err := m.store.DeleteByPrefix(ctx, prefix); err != nil {
		m.warn(ctx, "cache.invalidate_prefix failed", err)
	}
}

func (m *Manager) warn(ctx context.Context, msg string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithField(ctx, "cache_error", err.Error())
	m.logg.Warn(ctx, msg)
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Corrupt entries are dropped and recomputed. A value is only ever
// replaced by going through invalidation back to absent, so readers never
// see a partially updated entry.
func GetOrCompute[T any](ctx context.Context, m *Manager, key string, class TTLClass, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	if m == nil || m.store == nil {
		return compute(ctx)
	}

	raw, err := m.store.Get(ctx, key)
	if err == nil {
		var cached T
		if unmarshalErr := json.Unmarshal([]byte(raw), &cached); unmarshalErr == nil {
			return cached, nil
		}
		m.Invalidate(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		m.warn(ctx, "cache.get failed", err)
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		m.warn(ctx, "cache.marshal failed", err)
		return value, nil
	}
	if err := m.store.Set(ctx, key, string(payload), m.ttlFor(class)); err != nil {
		m.warn(ctx, "cache.set failed", err)
	}
	return value, nil
}
