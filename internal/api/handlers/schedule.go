package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/strategy-scheduler/internal/balancer"
	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/internal/schedule"
	"github.com/wonny/strategy-scheduler/pkg/logger"
)

// ScheduleService is the part of schedule.Service the API exposes
type ScheduleService interface {
	Assign(ctx context.Context, id contracts.StrategyID, weight float64) (contracts.Weekday, error)
	AssignFromSource(ctx context.Context, id contracts.StrategyID) (contracts.Weekday, float64, error)
	Unassign(ctx context.Context, id contracts.StrategyID) error
	Schedules(ctx context.Context) ([]contracts.StrategySchedule, error)
	Distribution(ctx context.Context) (*schedule.Distribution, error)
	Roster(ctx context.Context, day contracts.Weekday) ([]contracts.StrategyID, error)
}

// ScheduleHandler handles weekday schedule endpoints
// ⭐ SSOT: 스케줄 API 핸들러는 이 구조체에서만
type ScheduleHandler struct {
	service ScheduleService
	logger  *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  log.WithComponent("api"),
	}
}

// AssignRequest is the optional body of an assign call.
// A nil Weight means "use the configured weight source".
type AssignRequest struct {
	Weight *float64 `json:"weight"`
}

// AssignResponse reports the chosen weekday
type AssignResponse struct {
	StrategyID  contracts.StrategyID `json:"strategy_id"`
	Weekday     contracts.Weekday    `json:"weekday"`
	WeekdayName string               `json:"weekday_name"`
	Weight      float64              `json:"weight"`
}

// ListSchedules returns every active schedule
// GET /api/schedules
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.Schedules(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list schedules")
		respondError(w, http.StatusInternalServerError, "Failed to list schedules")
		return
	}

	respondJSON(w, http.StatusOK, schedules)
}

// GetLoads returns the weekly load distribution
// GET /api/schedules/loads
func (h *ScheduleHandler) GetLoads(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.Distribution(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute distribution")
		respondError(w, http.StatusInternalServerError, "Failed to compute load distribution")
		return
	}

	respondJSON(w, http.StatusOK, dist)
}

// GetRoster returns the strategies due on a weekday
// GET /api/schedules/roster/{weekday}
func (h *ScheduleHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	day, err := contracts.ParseWeekday(mux.Vars(r)["weekday"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.service.Roster(r.Context(), day)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get roster")
		respondError(w, http.StatusInternalServerError, "Failed to get roster")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"weekday":    day,
		"strategies": ids,
	})
}

// Assign chooses and stores a weekday for a strategy
// POST /api/schedules/{strategy_id}/assign
func (h *ScheduleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id := contracts.StrategyID(mux.Vars(r)["strategy_id"])

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		day    contracts.Weekday
		weight float64
		err    error
	)
	if req.Weight != nil {
		weight = *req.Weight
		day, err = h.service.Assign(r.Context(), id, weight)
	} else {
		day, weight, err = h.service.AssignFromSource(r.Context(), id)
	}

	if err != nil {
		switch {
		case errors.Is(err, balancer.ErrInvalidWeight), errors.Is(err, balancer.ErrInvalidWeekday):
			respondError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, contracts.ErrStrategyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, contracts.ErrStrategyInactive):
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.WithError(err).WithField("strategy_id", string(id)).Error("Failed to assign strategy")
		respondError(w, http.StatusInternalServerError, "Failed to assign strategy")
		return
	}

	respondJSON(w, http.StatusOK, AssignResponse{
		StrategyID:  id,
		Weekday:     day,
		WeekdayName: day.String(),
		Weight:      weight,
	})
}

// Unassign removes a strategy's schedule
// DELETE /api/schedules/{strategy_id}
func (h *ScheduleHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id := contracts.StrategyID(mux.Vars(r)["strategy_id"])

	if err := h.service.Unassign(r.Context(), id); err != nil {
		h.logger.WithError(err).WithField("strategy_id", string(id)).Error("Failed to unassign strategy")
		respondError(w, http.StatusInternalServerError, "Failed to unassign strategy")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
