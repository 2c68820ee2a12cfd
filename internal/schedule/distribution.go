package schedule

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/wonny/strategy-scheduler/internal/balancer"
	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// Distribution is the weekly load picture used for status reporting
type Distribution struct {
	Loads      map[contracts.Weekday]float64                `json:"loads"`
	Strategies map[contracts.Weekday][]contracts.StrategyID `json:"strategies"`
	Candidates []contracts.Weekday                          `json:"candidates"` // least-loaded days
	Total      float64                                      `json:"total"`
	Mean       float64                                      `json:"mean"`
	StdDev     float64                                      `json:"std_dev"`
	Spread     float64                                      `json:"spread"` // max - min
}

// Summarize computes the distribution for a schedule snapshot
func Summarize(schedules []contracts.StrategySchedule, weights contracts.Weights) (*Distribution, error) {
	loads, err := balancer.DayLoads(schedules, weights)
	if err != nil {
		return nil, err
	}

	byDay := make(map[contracts.Weekday][]contracts.StrategyID, len(contracts.AllWeekdays))
	for _, d := range contracts.AllWeekdays {
		byDay[d] = []contracts.StrategyID{}
	}
	for _, s := range schedules {
		byDay[s.Weekday] = append(byDay[s.Weekday], s.StrategyID)
	}
	for _, ids := range byDay {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	data := stats.Float64Data(loads[:])

	total, err := data.Sum()
	if err != nil {
		return nil, fmt.Errorf("sum loads: %w", err)
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, fmt.Errorf("mean load: %w", err)
	}
	stdDev, err := data.StandardDeviationPopulation()
	if err != nil {
		return nil, fmt.Errorf("stddev load: %w", err)
	}
	maxLoad, err := data.Max()
	if err != nil {
		return nil, fmt.Errorf("max load: %w", err)
	}
	minLoad, err := data.Min()
	if err != nil {
		return nil, fmt.Errorf("min load: %w", err)
	}

	return &Distribution{
		Loads:      loads.Map(),
		Strategies: byDay,
		Candidates: loads.Candidates(),
		Total:      total,
		Mean:       mean,
		StdDev:     stdDev,
		Spread:     maxLoad - minLoad,
	}, nil
}
