package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// CacheInvalidator drops a cached snapshot
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// WeightCacheRefreshJob drops the cached weight map before the onboarding run
// so new ticker counts and overrides are picked up
type WeightCacheRefreshJob struct {
	cache    CacheInvalidator
	schedule string
	logger   *logger.Logger
}

// NewWeightCacheRefreshJob creates a new cache refresh job
func NewWeightCacheRefreshJob(cache CacheInvalidator, schedule string, log *logger.Logger) *WeightCacheRefreshJob {
	return &WeightCacheRefreshJob{
		cache:    cache,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WeightCacheRefreshJob) Name() string {
	return "weight_cache_refresh"
}

// Schedule returns the cron schedule
func (j *WeightCacheRefreshJob) Schedule() string {
	return j.schedule
}

// Run drops the cached weights
func (j *WeightCacheRefreshJob) Run(ctx context.Context) error {
	if err := j.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate weight cache: %w", err)
	}

	j.logger.Debug("Weight cache invalidated")
	return nil
}
