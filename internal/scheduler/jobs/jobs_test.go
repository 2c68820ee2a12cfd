package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/internal/schedule"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

type fakeOnboarder struct {
	assigned []contracts.StrategySchedule
	err      error
}

func (f *fakeOnboarder) AssignUnscheduled(ctx context.Context) ([]contracts.StrategySchedule, error) {
	return f.assigned, f.err
}

type fakeRoster struct {
	asked []contracts.Weekday
	ids   []contracts.StrategyID
}

func (f *fakeRoster) Roster(ctx context.Context, day contracts.Weekday) ([]contracts.StrategyID, error) {
	f.asked = append(f.asked, day)
	return f.ids, nil
}

type fakeDistribution struct {
	dist *schedule.Distribution
	err  error
}

func (f *fakeDistribution) Distribution(ctx context.Context) (*schedule.Distribution, error) {
	return f.dist, f.err
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func TestOnboardingJob(t *testing.T) {
	ok := &fakeOnboarder{assigned: []contracts.StrategySchedule{{StrategyID: "a", Weekday: 2}}}
	job := NewOnboardingJob(ok, "0 0 6 * * MON-FRI", logger.Nop())

	assert.Equal(t, "onboarding", job.Name())
	assert.Equal(t, "0 0 6 * * MON-FRI", job.Schedule())
	assert.NoError(t, job.Run(context.Background()))

	failing := &fakeOnboarder{err: errors.New("partial failure")}
	err := NewOnboardingJob(failing, "@daily", logger.Nop()).Run(context.Background())
	assert.ErrorContains(t, err, "partial failure")
}

func TestDailyRosterJob(t *testing.T) {
	src := &fakeRoster{ids: []contracts.StrategyID{"a", "b"}}
	job := NewDailyRosterJob(src, "0 0 7 * * MON-FRI", time.UTC, logger.Nop())

	// 2026-10-14 is a Wednesday
	job.now = func() time.Time { return time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC) }
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []contracts.Weekday{contracts.Wednesday}, src.asked)

	// Saturday: nothing asked
	job.now = func() time.Time { return time.Date(2026, 10, 17, 7, 0, 0, 0, time.UTC) }
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, src.asked, 1)
}

func TestDailyRosterJob_UsesLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	src := &fakeRoster{}
	job := NewDailyRosterJob(src, "@daily", seoul, logger.Nop())

	// Sunday 23:00 UTC is already Monday in Seoul
	job.now = func() time.Time { return time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC) }
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []contracts.Weekday{contracts.Monday}, src.asked)
}

func TestLoadReportJob(t *testing.T) {
	dist, err := schedule.Summarize([]contracts.StrategySchedule{{StrategyID: "a", Weekday: 1}}, contracts.Weights{"a": 3})
	require.NoError(t, err)

	job := NewLoadReportJob(&fakeDistribution{dist: dist}, "0 30 6 * * MON", logger.Nop())
	assert.Equal(t, "load_report", job.Name())
	assert.NoError(t, job.Run(context.Background()))

	job = NewLoadReportJob(&fakeDistribution{err: errors.New("db down")}, "@weekly", logger.Nop())
	assert.ErrorContains(t, job.Run(context.Background()), "db down")
}

func TestWeightCacheRefreshJob(t *testing.T) {
	inv := &fakeInvalidator{}
	job := NewWeightCacheRefreshJob(inv, "0 55 5 * * MON-FRI", logger.Nop())

	assert.Equal(t, "weight_cache_refresh", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, inv.calls)
}
