package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/strategy-scheduler/internal/schedule"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// DistributionSource reports the weekly load picture
type DistributionSource interface {
	Distribution(ctx context.Context) (*schedule.Distribution, error)
}

// LoadReportJob logs the per-weekday load once a week
type LoadReportJob struct {
	source   DistributionSource
	schedule string
	logger   *logger.Logger
}

// NewLoadReportJob creates a new load report job
func NewLoadReportJob(source DistributionSource, schedule string, log *logger.Logger) *LoadReportJob {
	return &LoadReportJob{
		source:   source,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *LoadReportJob) Name() string {
	return "load_report"
}

// Schedule returns the cron schedule
func (j *LoadReportJob) Schedule() string {
	return j.schedule
}

// Run logs the distribution
func (j *LoadReportJob) Run(ctx context.Context) error {
	dist, err := j.source.Distribution(ctx)
	if err != nil {
		return fmt.Errorf("load distribution: %w", err)
	}

	fields := map[string]interface{}{
		"total":   dist.Total,
		"mean":    dist.Mean,
		"std_dev": dist.StdDev,
		"spread":  dist.Spread,
	}
	for day, load := range dist.Loads {
		fields["load_"+day.String()] = load
	}

	j.logger.WithFields(fields).Info("Weekly load distribution")
	return nil
}
