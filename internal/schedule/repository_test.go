package schedule

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/strategy-scheduler/internal/balancer"
	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/internal/registry"
	"github.com/wonny/strategy-scheduler/internal/weights"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

func TestRepository_Integration(t *testing.T) {
	// Skip if running in CI without database
	url := os.Getenv("DATABASE_URL")
	if testing.Short() || url == "" {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "database connection failed")
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		INSERT INTO strategies (id, name, tickers, active) VALUES
			('it-sched-a', 'a', ARRAY['AAPL'], TRUE),
			('it-sched-b', 'b', ARRAY['MSFT','GOOG'], TRUE)
		ON CONFLICT (id) DO UPDATE SET active = TRUE`)
	require.NoError(t, err)
	defer pool.Exec(ctx, `DELETE FROM strategies WHERE id IN ('it-sched-a', 'it-sched-b')`)

	repo := NewRepository(pool)

	unscheduled, err := repo.ListUnscheduled(ctx)
	require.NoError(t, err)
	assert.Contains(t, unscheduled, contracts.StrategyID("it-sched-a"))

	svc := NewService(repo, registry.NewRepository(pool), weights.Static{"it-sched-a": 1, "it-sched-b": 2}, balancer.New(), 1, logger.Nop())

	day, err := svc.Assign(ctx, "it-sched-a", 1)
	require.NoError(t, err)
	assert.True(t, day.Valid())

	_, err = svc.Assign(ctx, "it-sched-missing", 1)
	assert.ErrorIs(t, err, contracts.ErrStrategyNotFound)

	schedules, err := repo.ListActiveSchedules(ctx)
	require.NoError(t, err)
	assert.Contains(t, schedules, contracts.StrategySchedule{StrategyID: "it-sched-a", Weekday: day})

	err = repo.UpsertSchedule(ctx, contracts.StrategySchedule{StrategyID: "it-sched-b", Weekday: 6})
	assert.Error(t, err)

	require.NoError(t, repo.DeleteSchedule(ctx, "it-sched-a"))
	require.NoError(t, repo.DeleteSchedule(ctx, "it-sched-a"))
}
