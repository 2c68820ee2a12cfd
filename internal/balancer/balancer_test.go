package balancer

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

func sched(id string, day contracts.Weekday) contracts.StrategySchedule {
	return contracts.StrategySchedule{StrategyID: contracts.StrategyID(id), Weekday: day}
}

func TestChooseDay_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		schedules []contracts.StrategySchedule
		weights   contracts.Weights
		newWeight float64
		wantLoads Loads
		want      []contracts.Weekday
	}{
		{
			name:      "unused days preferred",
			schedules: []contracts.StrategySchedule{sched("A", 2), sched("B", 4)},
			weights:   contracts.Weights{"A": 2.0, "B": 1.0},
			newWeight: 1.0,
			wantLoads: Loads{0, 2.0, 0, 1.0, 0},
			want:      []contracts.Weekday{1, 3, 5},
		},
		{
			name:      "stacked monday",
			schedules: []contracts.StrategySchedule{sched("X", 1), sched("Y", 1), sched("Z", 3)},
			weights:   contracts.Weights{"X": 1.0, "Y": 1.0, "Z": 1.0},
			newWeight: 1.0,
			wantLoads: Loads{2.0, 0, 1.0, 0, 0},
			want:      []contracts.Weekday{2, 4, 5},
		},
		{
			name:      "no schedules",
			newWeight: 0.5,
			wantLoads: Loads{},
			want:      []contracts.Weekday{1, 2, 3, 4, 5},
		},
		{
			name: "full tie",
			schedules: []contracts.StrategySchedule{
				sched("A", 1), sched("B", 2), sched("C", 3), sched("D", 4), sched("E", 5),
			},
			weights:   contracts.Weights{"A": 2, "B": 2, "C": 2, "D": 2, "E": 2},
			newWeight: 1.0,
			wantLoads: Loads{2, 2, 2, 2, 2},
			want:      []contracts.Weekday{1, 2, 3, 4, 5},
		},
		{
			name: "single lightest day",
			schedules: []contracts.StrategySchedule{
				sched("A", 1), sched("B", 2), sched("C", 3), sched("D", 4), sched("E", 5),
			},
			weights:   contracts.Weights{"A": 3, "B": 2, "C": 0.5, "D": 4, "E": 1},
			newWeight: 10,
			wantLoads: Loads{3, 2, 0.5, 4, 1},
			want:      []contracts.Weekday{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads, err := DayLoads(tt.schedules, tt.weights)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoads, loads)
			assert.Equal(t, tt.want, loads.Candidates())

			for i := 0; i < 50; i++ {
				day, err := ChooseDay(tt.schedules, tt.weights, tt.newWeight)
				require.NoError(t, err)
				assert.Contains(t, tt.want, day)
				assert.True(t, day.Valid())
			}
		})
	}
}

func TestChooseDay_NegativeNewWeight(t *testing.T) {
	inputs := []struct {
		schedules []contracts.StrategySchedule
		weights   contracts.Weights
	}{
		{nil, nil},
		{[]contracts.StrategySchedule{sched("A", 1)}, contracts.Weights{"A": 1}},
		{[]contracts.StrategySchedule{sched("A", 9)}, contracts.Weights{"A": -3}},
	}

	for _, in := range inputs {
		day, err := ChooseDay(in.schedules, in.weights, -1.0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidWeight))
		assert.Equal(t, contracts.Weekday(0), day)

		var werr *InvalidWeightError
		require.True(t, errors.As(err, &werr))
		assert.Empty(t, werr.StrategyID)
		assert.Equal(t, -1.0, werr.Weight)
	}
}

func TestChooseDay_NaNWeight(t *testing.T) {
	_, err := ChooseDay(nil, nil, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestChooseDay_NegativeScheduledWeight(t *testing.T) {
	schedules := []contracts.StrategySchedule{sched("A", 1), sched("B", 2)}
	weights := contracts.Weights{"A": 1, "B": -0.5}

	_, err := ChooseDay(schedules, weights, 1)
	require.ErrorIs(t, err, ErrInvalidWeight)

	var werr *InvalidWeightError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, contracts.StrategyID("B"), werr.StrategyID)
}

func TestChooseDay_InvalidWeekday(t *testing.T) {
	for _, day := range []contracts.Weekday{0, 6, 7, -1} {
		_, err := ChooseDay([]contracts.StrategySchedule{sched("A", day)}, nil, 1)
		assert.ErrorIs(t, err, ErrInvalidWeekday, "weekday %d", day)
	}
}

func TestChooseDay_MissingWeightIsZero(t *testing.T) {
	// "ghost" has no weight entry, so Wednesday still counts as empty
	schedules := []contracts.StrategySchedule{
		sched("A", 1), sched("B", 2), sched("ghost", 3), sched("D", 4), sched("E", 5),
	}
	weights := contracts.Weights{"A": 1, "B": 1, "D": 1, "E": 1}

	loads, err := DayLoads(schedules, weights)
	require.NoError(t, err)
	assert.Equal(t, 0.0, loads.Of(contracts.Wednesday))

	for i := 0; i < 20; i++ {
		day, err := ChooseDay(schedules, weights, 5)
		require.NoError(t, err)
		assert.Equal(t, contracts.Wednesday, day)
	}
}

func TestChooseDay_ZeroLoadPreference(t *testing.T) {
	schedules := []contracts.StrategySchedule{sched("A", 1), sched("B", 2), sched("C", 5)}
	weights := contracts.Weights{"A": 0.1, "B": 7, "C": 0.01}

	for i := 0; i < 100; i++ {
		day, err := ChooseDay(schedules, weights, 100)
		require.NoError(t, err)
		assert.Contains(t, []contracts.Weekday{contracts.Wednesday, contracts.Thursday}, day)
	}
}

func TestChooseDay_DoesNotMutateInputs(t *testing.T) {
	schedules := []contracts.StrategySchedule{sched("A", 2), sched("B", 4)}
	weights := contracts.Weights{"A": 2.0, "B": 1.0, "unused": 3.0}

	schedulesCopy := append([]contracts.StrategySchedule(nil), schedules...)
	weightsCopy := contracts.Weights{"A": 2.0, "B": 1.0, "unused": 3.0}

	_, err := ChooseDay(schedules, weights, 1)
	require.NoError(t, err)

	assert.Equal(t, schedulesCopy, schedules)
	assert.Equal(t, weightsCopy, weights)
}

func TestChooseDay_TieBreakUsesPicker(t *testing.T) {
	var gotN int
	b := NewWithPicker(func(n int) int {
		gotN = n
		return n - 1
	})

	schedules := []contracts.StrategySchedule{sched("A", 2), sched("B", 4)}
	day, err := b.ChooseDay(schedules, contracts.Weights{"A": 2, "B": 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, gotN)
	assert.Equal(t, contracts.Friday, day)
}

func TestChooseDay_SingleCandidateSkipsPicker(t *testing.T) {
	b := NewWithPicker(func(n int) int {
		t.Fatalf("picker called with n=%d", n)
		return 0
	})

	schedules := []contracts.StrategySchedule{
		sched("A", 1), sched("B", 2), sched("C", 3), sched("D", 4),
	}
	day, err := b.ChooseDay(schedules, contracts.Weights{"A": 1, "B": 1, "C": 1, "D": 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, contracts.Friday, day)
}

func TestChooseDay_TieBreakSpreadsPicks(t *testing.T) {
	// 고정 규칙(가장 작은 요일)이라면 항상 월요일만 나옴
	seen := make(map[contracts.Weekday]int)
	for i := 0; i < 2000; i++ {
		day, err := ChooseDay(nil, nil, 1)
		require.NoError(t, err)
		seen[day]++
	}

	assert.Len(t, seen, 5)
	for day, n := range seen {
		assert.Greater(t, n, 250, "weekday %s picked too rarely", day)
	}
}

func TestChooseDay_Stateless(t *testing.T) {
	schedules := []contracts.StrategySchedule{sched("X", 1), sched("Y", 1), sched("Z", 3)}
	weights := contracts.Weights{"X": 1, "Y": 1, "Z": 1}

	want := []contracts.Weekday{2, 4, 5}
	for i := 0; i < 100; i++ {
		loads, err := DayLoads(schedules, weights)
		require.NoError(t, err)
		assert.Equal(t, want, loads.Candidates())

		day, err := ChooseDay(schedules, weights, 1)
		require.NoError(t, err)
		assert.Contains(t, want, day)
	}
}

func TestChooseDay_Concurrent(t *testing.T) {
	schedules := []contracts.StrategySchedule{sched("A", 2), sched("B", 4)}
	weights := contracts.Weights{"A": 2.0, "B": 1.0}
	want := []contracts.Weekday{1, 3, 5}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	days := make(chan contracts.Weekday, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			day, err := ChooseDay(schedules, weights, 1)
			if err != nil {
				errs <- err
				return
			}
			days <- day
		}()
	}
	wg.Wait()
	close(errs)
	close(days)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	for day := range days {
		assert.Contains(t, want, day)
	}
}

func TestLoads_Map(t *testing.T) {
	loads := Loads{1, 0, 2.5, 0, 4}
	m := loads.Map()

	assert.Len(t, m, 5)
	assert.Equal(t, 2.5, m[contracts.Wednesday])
	assert.Equal(t, 0.0, loads.Min())
}

func TestLoads_CandidatesUseExactEquality(t *testing.T) {
	schedules := []contracts.StrategySchedule{
		sched("a", contracts.Monday),
		sched("b", contracts.Monday),
		sched("c", contracts.Tuesday),
		sched("d", contracts.Wednesday),
		sched("e", contracts.Thursday),
		sched("f", contracts.Friday),
	}
	w := contracts.Weights{"a": 0.1, "b": 0.2, "c": 0.3, "d": 1, "e": 1, "f": 1}

	loads, err := DayLoads(schedules, w)
	require.NoError(t, err)

	// 0.1+0.2 accumulates to 0.30000000000000004
	assert.Greater(t, loads.Of(contracts.Monday), loads.Of(contracts.Tuesday))
	assert.Equal(t, []contracts.Weekday{contracts.Tuesday}, loads.Candidates())
}
