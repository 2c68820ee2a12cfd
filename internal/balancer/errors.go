package balancer

import (
	"errors"
	"fmt"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

var (
	// ErrInvalidWeight is returned for a negative or NaN cost weight
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrInvalidWeekday is returned when a schedule points outside Monday..Friday
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// InvalidWeightError carries the offending weight.
// StrategyID is empty when the new strategy's own weight was rejected.
type InvalidWeightError struct {
	StrategyID contracts.StrategyID
	Weight     float64
}

func (e *InvalidWeightError) Error() string {
	if e.StrategyID == "" {
		return fmt.Sprintf("invalid weight: new strategy weight %v must be >= 0", e.Weight)
	}
	return fmt.Sprintf("invalid weight: strategy %s has weight %v, must be >= 0", e.StrategyID, e.Weight)
}

func (e *InvalidWeightError) Unwrap() error {
	return ErrInvalidWeight
}
