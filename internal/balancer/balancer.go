// Package balancer picks the weekday a strategy should run on.
//
// The decision is a greedy least-loaded choice over five bins (Monday..Friday):
// every weekday's load is the sum of the weights of the strategies already on it,
// and the new strategy goes to one of the days with the smallest load. Ties are
// broken uniformly at random so that repeated onboarding of equal strategies
// spreads across the week instead of piling onto the lowest-numbered day.
//
// The balancer owns no state. Callers pass a snapshot of the current schedules and
// weights and are responsible for persisting the result (and for serializing
// concurrent "choose, then write" sequences).
package balancer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// Loads holds the aggregate weight per weekday, indexed by Weekday-1
type Loads [5]float64

// Of returns the load of day d
func (l Loads) Of(d contracts.Weekday) float64 {
	return l[d-1]
}

// Min returns the smallest load across the week
func (l Loads) Min() float64 {
	lowest := l[0]
	for _, v := range l[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest
}

// Candidates returns the weekdays tied at the minimum load, in Monday..Friday order.
// A tie is exact float equality; sums that differ only by rounding (0.1+0.2 vs 0.3)
// are not tied.
func (l Loads) Candidates() []contracts.Weekday {
	lowest := l.Min()
	days := make([]contracts.Weekday, 0, len(l))
	for _, d := range contracts.AllWeekdays {
		if l.Of(d) == lowest {
			days = append(days, d)
		}
	}
	return days
}

// Map returns the loads keyed by weekday (JSON/report friendly)
func (l Loads) Map() map[contracts.Weekday]float64 {
	m := make(map[contracts.Weekday]float64, len(l))
	for _, d := range contracts.AllWeekdays {
		m[d] = l.Of(d)
	}
	return m
}

// Balancer chooses weekdays. The zero value is not usable; use New or NewWithPicker.
// ⭐ SSOT: 요일 배정 로직은 여기서만
type Balancer struct {
	// pick returns an index in [0, n). Must be safe for concurrent use.
	pick func(n int) int
}

// New returns a Balancer breaking ties with math/rand/v2's global generator,
// which is safe for concurrent use.
func New() *Balancer {
	return &Balancer{pick: rand.IntN}
}

// NewWithPicker returns a Balancer using pick for tie-breaking
func NewWithPicker(pick func(n int) int) *Balancer {
	return &Balancer{pick: pick}
}

var defaultBalancer = New()

// ChooseDay picks a weekday for a strategy costing newWeight using the default Balancer
func ChooseDay(schedules []contracts.StrategySchedule, weights contracts.Weights, newWeight float64) (contracts.Weekday, error) {
	return defaultBalancer.ChooseDay(schedules, weights, newWeight)
}

// DayLoads sums the weight of every schedule per weekday.
// Strategies missing from weights contribute nothing.
func DayLoads(schedules []contracts.StrategySchedule, weights contracts.Weights) (Loads, error) {
	var loads Loads
	for _, s := range schedules {
		if !s.Weekday.Valid() {
			return Loads{}, fmt.Errorf("%w: strategy %s scheduled on %d", ErrInvalidWeekday, s.StrategyID, int(s.Weekday))
		}

		w, ok := weights[s.StrategyID]
		if !ok {
			continue
		}
		if invalidWeight(w) {
			return Loads{}, &InvalidWeightError{StrategyID: s.StrategyID, Weight: w}
		}

		loads[s.Weekday-1] += w
	}
	return loads, nil
}

// ChooseDay returns the least-loaded weekday for a strategy costing newWeight.
// Neither schedules nor weights are modified.
func (b *Balancer) ChooseDay(schedules []contracts.StrategySchedule, weights contracts.Weights, newWeight float64) (contracts.Weekday, error) {
	if invalidWeight(newWeight) {
		return 0, &InvalidWeightError{Weight: newWeight}
	}

	loads, err := DayLoads(schedules, weights)
	if err != nil {
		return 0, err
	}

	// Adding newWeight to every tied day keeps them tied, so the candidate set
	// after assignment is the same as before it.
	candidates := loads.Candidates()
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return candidates[b.pick(len(candidates))], nil
}

func invalidWeight(w float64) bool {
	return w < 0 || math.IsNaN(w)
}
