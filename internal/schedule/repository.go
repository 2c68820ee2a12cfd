package schedule

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/database"
)

// assignLockKey is the pg advisory lock guarding "choose day + write schedule"
const assignLockKey int64 = 0x5354_5241_5453 // "STRATS"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgStore implements Store on top of a pool or a transaction
type pgStore struct {
	q querier
}

// Repository persists weekday schedules in PostgreSQL
// ⭐ SSOT: strategy_schedules 테이블 접근은 여기서만
type Repository struct {
	pgStore
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pgStore: pgStore{q: pool}, pool: pool}
}

// InTx runs fn in a transaction holding the assignment advisory lock, so
// concurrent assigners (in any process) observe each other's writes.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, assignLockKey); err != nil {
			return fmt.Errorf("acquire assign lock: %w", err)
		}
		return fn(ctx, &pgStore{q: tx})
	})
}

// ListActiveSchedules returns the schedules of active strategies
func (s *pgStore) ListActiveSchedules(ctx context.Context) ([]contracts.StrategySchedule, error) {
	query := `
		SELECT ss.strategy_id, ss.weekday
		FROM strategy_schedules ss
		JOIN strategies st ON st.id = ss.strategy_id
		WHERE st.active
		ORDER BY ss.strategy_id
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]contracts.StrategySchedule, 0)
	for rows.Next() {
		var id string
		var weekday int16
		if err := rows.Scan(&id, &weekday); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, contracts.StrategySchedule{
			StrategyID: contracts.StrategyID(id),
			Weekday:    contracts.Weekday(weekday),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

// UpsertSchedule creates or moves a strategy's schedule
func (s *pgStore) UpsertSchedule(ctx context.Context, schedule contracts.StrategySchedule) error {
	if !schedule.Weekday.Valid() {
		return fmt.Errorf("upsert schedule %s: weekday %d out of range", schedule.StrategyID, int(schedule.Weekday))
	}

	query := `
		INSERT INTO strategy_schedules (strategy_id, weekday, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (strategy_id) DO UPDATE SET
			weekday = EXCLUDED.weekday,
			updated_at = NOW()
	`

	if _, err := s.q.Exec(ctx, query, string(schedule.StrategyID), int16(schedule.Weekday)); err != nil {
		return fmt.Errorf("upsert schedule %s: %w", schedule.StrategyID, err)
	}

	return nil
}

// DeleteSchedule removes a strategy's schedule; deleting a missing one is a no-op
func (s *pgStore) DeleteSchedule(ctx context.Context, id contracts.StrategyID) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM strategy_schedules WHERE strategy_id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	return nil
}

// ListUnscheduled returns active strategies that have no weekday yet
func (s *pgStore) ListUnscheduled(ctx context.Context) ([]contracts.StrategyID, error) {
	query := `
		SELECT st.id
		FROM strategies st
		LEFT JOIN strategy_schedules ss ON ss.strategy_id = st.id
		WHERE st.active AND ss.strategy_id IS NULL
		ORDER BY st.created_at, st.id
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unscheduled: %w", err)
	}
	defer rows.Close()

	ids := make([]contracts.StrategyID, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unscheduled: %w", err)
		}
		ids = append(ids, contracts.StrategyID(id))
	}

	return ids, rows.Err()
}
