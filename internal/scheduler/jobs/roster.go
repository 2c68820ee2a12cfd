package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// RosterSource lists strategies due on a weekday
type RosterSource interface {
	Roster(ctx context.Context, day contracts.Weekday) ([]contracts.StrategyID, error)
}

// DailyRosterJob publishes the strategies due today. Execution happens elsewhere;
// this job only announces the roster.
type DailyRosterJob struct {
	source   RosterSource
	schedule string
	location *time.Location
	now      func() time.Time
	logger   *logger.Logger
}

// NewDailyRosterJob creates a new roster job evaluating "today" in loc
func NewDailyRosterJob(source RosterSource, schedule string, loc *time.Location, log *logger.Logger) *DailyRosterJob {
	return &DailyRosterJob{
		source:   source,
		schedule: schedule,
		location: loc,
		now:      time.Now,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyRosterJob) Name() string {
	return "daily_roster"
}

// Schedule returns the cron schedule
func (j *DailyRosterJob) Schedule() string {
	return j.schedule
}

// Run logs today's roster; weekends are skipped
func (j *DailyRosterJob) Run(ctx context.Context) error {
	today := j.now().In(j.location)

	day, ok := contracts.WeekdayFromTime(today)
	if !ok {
		j.logger.WithField("date", today.Format("2006-01-02")).Debug("Weekend, no roster")
		return nil
	}

	ids, err := j.source.Roster(ctx, day)
	if err != nil {
		return fmt.Errorf("roster for %s: %w", day, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"weekday":    day.String(),
		"date":       today.Format("2006-01-02"),
		"count":      len(ids),
		"strategies": ids,
	}).Info("Strategies due today")

	return nil
}
