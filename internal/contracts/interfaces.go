package contracts

import (
	"context"
	"errors"
)

var (
	// ErrStrategyNotFound is returned when a strategy id is not in the registry
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrStrategyInactive is returned when scheduling a deactivated strategy
	ErrStrategyInactive = errors.New("strategy is inactive")
)

// ScheduleStore persists weekday assignments
// ⭐ SSOT: 스케줄 저장소 인터페이스
type ScheduleStore interface {
	ListActiveSchedules(ctx context.Context) ([]StrategySchedule, error)
	UpsertSchedule(ctx context.Context, schedule StrategySchedule) error
	DeleteSchedule(ctx context.Context, id StrategyID) error
}

// WeightSource supplies the cost weight of every known strategy
// ⭐ SSOT: 가중치(비용) 공급 인터페이스
type WeightSource interface {
	Weights(ctx context.Context) (Weights, error)
}

// StrategyRegistry lists strategies and their active status
type StrategyRegistry interface {
	ListActiveStrategies(ctx context.Context) ([]Strategy, error)
	GetStrategy(ctx context.Context, id StrategyID) (*Strategy, error)
}
