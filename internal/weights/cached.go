package weights

import (
	"context"
	"time"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/logger"
	"github.com/wonny/strategy-scheduler/pkg/redis"
)

// CachedSource memoizes another source in Redis for ttl.
// Cache failures are logged and fall through to the underlying source.
type CachedSource struct {
	source contracts.WeightSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps source. A zero ttl disables caching.
func NewCachedSource(source contracts.WeightSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithComponent("weights_cache"),
	}
}

// Weights implements contracts.WeightSource
func (s *CachedSource) Weights(ctx context.Context) (contracts.Weights, error) {
	if s.ttl <= 0 {
		return s.source.Weights(ctx)
	}

	var cached contracts.Weights
	found, err := s.cache.Get(ctx, redis.WeightsKey, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Weight cache read failed, using source")
	}
	if found {
		return cached, nil
	}

	w, err := s.source.Weights(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, redis.WeightsKey, w, s.ttl); err != nil {
		s.logger.WithError(err).Warn("Weight cache write failed")
	}

	return w, nil
}

// Invalidate drops the cached snapshot so the next call hits the source
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, redis.WeightsKey)
}
