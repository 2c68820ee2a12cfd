package schedule

import (
	"context"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// Store is the schedule persistence the Service needs
type Store interface {
	contracts.ScheduleStore
	ListUnscheduled(ctx context.Context) ([]contracts.StrategyID, error)
}

// TxStore can run a read-decide-write sequence atomically with respect to
// other assigners
type TxStore interface {
	Store
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
