// Package weights supplies the per-strategy cost signal consumed by the balancer.
//
// What "cost" means (ticker count, token estimate, run time) is decided here and
// in the overrides file; the balancer only sees non-negative scalars.
package weights

import (
	"context"
	"fmt"
	"maps"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// Static is a fixed weight map
type Static contracts.Weights

// Weights returns a copy of the map
func (s Static) Weights(ctx context.Context) (contracts.Weights, error) {
	return maps.Clone(contracts.Weights(s)), nil
}

// RegistrySource weighs each active strategy by the size of its ticker universe
type RegistrySource struct {
	registry contracts.StrategyRegistry
}

// NewRegistrySource creates a RegistrySource
func NewRegistrySource(registry contracts.StrategyRegistry) *RegistrySource {
	return &RegistrySource{registry: registry}
}

// Weights implements contracts.WeightSource
func (s *RegistrySource) Weights(ctx context.Context) (contracts.Weights, error) {
	strategies, err := s.registry.ListActiveStrategies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}

	w := make(contracts.Weights, len(strategies))
	for _, st := range strategies {
		w[st.ID] = float64(st.TickerCount)
	}
	return w, nil
}

// Overlay merges Overrides on top of Base; an override entry always wins
type Overlay struct {
	Base      contracts.WeightSource
	Overrides contracts.WeightSource
}

// Weights implements contracts.WeightSource
func (o Overlay) Weights(ctx context.Context) (contracts.Weights, error) {
	base, err := o.Base.Weights(ctx)
	if err != nil {
		return nil, fmt.Errorf("base weights: %w", err)
	}

	overrides, err := o.Overrides.Weights(ctx)
	if err != nil {
		return nil, fmt.Errorf("override weights: %w", err)
	}

	merged := make(contracts.Weights, len(base)+len(overrides))
	maps.Copy(merged, base)
	maps.Copy(merged, overrides)
	return merged, nil
}
