package schedule

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"

	"github.com/wonny/strategy-scheduler/internal/balancer"
	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// Service assigns strategies to weekdays and persists the decision
// ⭐ SSOT: 요일 배정 + 저장은 이 서비스를 통해서만
type Service struct {
	store         TxStore
	registry      contracts.StrategyRegistry
	weights       contracts.WeightSource
	balancer      *balancer.Balancer
	defaultWeight float64
	logger        *logger.Logger
}

// NewService creates a new Service.
// defaultWeight is the cost of any strategy the weight source does not know, both when
// placing it and when counting it as load on its weekday.
func NewService(store TxStore, registry contracts.StrategyRegistry, weights contracts.WeightSource, bal *balancer.Balancer, defaultWeight float64, log *logger.Logger) *Service {
	return &Service{
		store:         store,
		registry:      registry,
		weights:       weights,
		balancer:      bal,
		defaultWeight: defaultWeight,
		logger:        log.WithComponent("schedule"),
	}
}

// Assign places strategy id (costing weight) on the least-loaded weekday and
// stores the result. An existing schedule for id is ignored while deciding, so
// the same call both onboards and re-schedules.
func (s *Service) Assign(ctx context.Context, id contracts.StrategyID, weight float64) (contracts.Weekday, error) {
	// 설정 오류: I/O 전에 거부, 재시도 없음
	if weight < 0 || math.IsNaN(weight) {
		return 0, &balancer.InvalidWeightError{StrategyID: id, Weight: weight}
	}

	if err := s.checkSchedulable(ctx, id); err != nil {
		return 0, err
	}

	weights, err := s.weights.Weights(ctx)
	if err != nil {
		return 0, fmt.Errorf("load weights: %w", err)
	}

	return s.assign(ctx, id, weight, weights)
}

// AssignFromSource is Assign with the weight taken from the weight source
func (s *Service) AssignFromSource(ctx context.Context, id contracts.StrategyID) (contracts.Weekday, float64, error) {
	if err := s.checkSchedulable(ctx, id); err != nil {
		return 0, 0, err
	}

	weights, err := s.weights.Weights(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load weights: %w", err)
	}

	weight := s.weightOf(weights, id)
	day, err := s.assign(ctx, id, weight, weights)
	return day, weight, err
}

// checkSchedulable rejects ids the registry does not know or has deactivated
func (s *Service) checkSchedulable(ctx context.Context, id contracts.StrategyID) error {
	strategy, err := s.registry.GetStrategy(ctx, id)
	if err != nil {
		return err
	}
	if !strategy.Active {
		return fmt.Errorf("%w: %s", contracts.ErrStrategyInactive, id)
	}
	return nil
}

func (s *Service) weightOf(weights contracts.Weights, id contracts.StrategyID) float64 {
	if w, ok := weights[id]; ok {
		return w
	}
	return s.defaultWeight
}

func (s *Service) assign(ctx context.Context, id contracts.StrategyID, weight float64, weights contracts.Weights) (contracts.Weekday, error) {
	var day contracts.Weekday
	var previous contracts.Weekday

	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		current, err := tx.ListActiveSchedules(ctx)
		if err != nil {
			return err
		}

		others := make([]contracts.StrategySchedule, 0, len(current))
		for _, sc := range current {
			if sc.StrategyID == id {
				previous = sc.Weekday
				continue
			}
			others = append(others, sc)
		}

		day, err = s.balancer.ChooseDay(others, s.withDefaults(weights, others), weight)
		if err != nil {
			return err
		}

		return tx.UpsertSchedule(ctx, contracts.StrategySchedule{StrategyID: id, Weekday: day})
	})
	if err != nil {
		return 0, fmt.Errorf("assign %s: %w", id, err)
	}

	fields := map[string]interface{}{
		"strategy_id": string(id),
		"weekday":     day.String(),
		"weight":      weight,
	}
	if previous != 0 {
		fields["previous_weekday"] = previous.String()
	}
	s.logger.WithFields(fields).Info("Strategy scheduled")

	return day, nil
}

// AssignUnscheduled onboards every active strategy that has no weekday yet.
// Strategies are placed one at a time so each decision sees the previous ones.
// A failure for one strategy does not stop the rest; all failures are joined.
func (s *Service) AssignUnscheduled(ctx context.Context) ([]contracts.StrategySchedule, error) {
	ids, err := s.store.ListUnscheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unscheduled: %w", err)
	}
	if len(ids) == 0 {
		return []contracts.StrategySchedule{}, nil
	}

	source, err := s.weights.Weights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	// 이번 실행에서 배정한 전략의 가중치를 다음 배정에 반영
	weights := maps.Clone(source)
	if weights == nil {
		weights = contracts.Weights{}
	}

	assigned := make([]contracts.StrategySchedule, 0, len(ids))
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		weight := s.weightOf(weights, id)
		day, err := s.assign(ctx, id, weight, weights)
		if err != nil {
			s.logger.WithError(err).WithField("strategy_id", string(id)).Error("Onboarding failed")
			errs = append(errs, err)
			continue
		}
		weights[id] = weight
		assigned = append(assigned, contracts.StrategySchedule{StrategyID: id, Weekday: day})
	}

	return assigned, errors.Join(errs...)
}

// Unassign removes a strategy's weekday (deactivation)
func (s *Service) Unassign(ctx context.Context, id contracts.StrategyID) error {
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("strategy_id", string(id)).Info("Strategy unscheduled")
	return nil
}

// Schedules returns every active schedule
func (s *Service) Schedules(ctx context.Context) ([]contracts.StrategySchedule, error) {
	return s.store.ListActiveSchedules(ctx)
}

// Distribution reports the current weekly load picture
func (s *Service) Distribution(ctx context.Context) (*Distribution, error) {
	schedules, err := s.store.ListActiveSchedules(ctx)
	if err != nil {
		return nil, err
	}

	weights, err := s.weights.Weights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	return Summarize(schedules, s.withDefaults(weights, schedules))
}

// Roster returns the strategies due on day, sorted by id
func (s *Service) Roster(ctx context.Context, day contracts.Weekday) ([]contracts.StrategyID, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %d", balancer.ErrInvalidWeekday, int(day))
	}

	schedules, err := s.store.ListActiveSchedules(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]contracts.StrategyID, 0)
	for _, sc := range schedules {
		if sc.Weekday == day {
			ids = append(ids, sc.StrategyID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// withDefaults returns weights with defaultWeight filled in for every scheduled
// strategy the source has no entry for. The input map is not modified.
func (s *Service) withDefaults(weights contracts.Weights, schedules []contracts.StrategySchedule) contracts.Weights {
	out := maps.Clone(weights)
	if out == nil {
		out = make(contracts.Weights, len(schedules))
	}
	for _, sc := range schedules {
		if _, ok := out[sc.StrategyID]; !ok {
			out[sc.StrategyID] = s.defaultWeight
		}
	}
	return out
}
