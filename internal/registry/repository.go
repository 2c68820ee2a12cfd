package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// ErrNotFound is returned when a strategy id is unknown
var ErrNotFound = contracts.ErrStrategyNotFound

// Repository reads the strategy registry
// ⭐ SSOT: strategies 테이블 접근은 여기서만
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const strategyColumns = `id, name, provider, mode, cardinality(tickers), active, created_at, updated_at`

func scanStrategy(row pgx.Row) (*contracts.Strategy, error) {
	var s contracts.Strategy
	var id string
	err := row.Scan(&id, &s.Name, &s.Provider, &s.Mode, &s.TickerCount, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = contracts.StrategyID(id)
	return &s, nil
}

// ListActiveStrategies returns every active strategy ordered by id
func (r *Repository) ListActiveStrategies(ctx context.Context) ([]contracts.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE active ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active strategies: %w", err)
	}
	defer rows.Close()

	strategies := make([]contracts.Strategy, 0)
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		strategies = append(strategies, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategies: %w", err)
	}

	return strategies, nil
}

// GetStrategy returns one strategy, active or not
func (r *Repository) GetStrategy(ctx context.Context, id contracts.StrategyID) (*contracts.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE id = $1`

	s, err := scanStrategy(r.db.QueryRow(ctx, query, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query strategy %s: %w", id, err)
	}

	return s, nil
}

// SetActive flips a strategy's active flag
func (r *Repository) SetActive(ctx context.Context, id contracts.StrategyID, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE strategies SET active = $2, updated_at = NOW() WHERE id = $1`,
		string(id), active,
	)
	if err != nil {
		return fmt.Errorf("update strategy %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
