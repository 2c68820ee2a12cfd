package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// Onboarder assigns a weekday to every unscheduled active strategy
type Onboarder interface {
	AssignUnscheduled(ctx context.Context) ([]contracts.StrategySchedule, error)
}

// OnboardingJob places newly activated strategies on a weekday
// ⭐ SSOT: 신규 전략 요일 배정 스케줄은 이 Job에서만
type OnboardingJob struct {
	onboarder Onboarder
	schedule  string
	logger    *logger.Logger
}

// NewOnboardingJob creates a new onboarding job
func NewOnboardingJob(onboarder Onboarder, schedule string, log *logger.Logger) *OnboardingJob {
	return &OnboardingJob{
		onboarder: onboarder,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *OnboardingJob) Name() string {
	return "onboarding"
}

// Schedule returns the cron schedule
func (j *OnboardingJob) Schedule() string {
	return j.schedule
}

// Run assigns all pending strategies
func (j *OnboardingJob) Run(ctx context.Context) error {
	assigned, err := j.onboarder.AssignUnscheduled(ctx)

	j.logger.WithField("assigned", len(assigned)).Info("Onboarding run finished")

	if err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	return nil
}
