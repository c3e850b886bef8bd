// Package httpapi is a thin HTTP façade over the planner: go-chi
// routing, rs/cors, JSON responses, errors.Is-based status mapping. It
// is scaffolding around the core (which itself does no I/O) rather than
// part of the planning algorithm.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/planner"
)

// Planner is the subset of *planner.Context behavior the handler needs,
// kept as an interface so tests can substitute a stub context.
type Planner interface {
	PlanHikes(query models.HikeQuery) ([]models.HikePlan, error)
}

// ContextPlanner adapts a *planner.Context to the Planner interface.
type ContextPlanner struct {
	Ctx *planner.Context
}

func (p ContextPlanner) PlanHikes(query models.HikeQuery) ([]models.HikePlan, error) {
	return planner.PlanHikesForOrigin(p.Ctx, query)
}

// Handler serves the hike-planning endpoints.
type Handler struct {
	planner Planner
	log     *zap.Logger
}

// New builds a Handler backed by p, logging internal errors through log
// (a nil logger disables that logging, matching zap.NewNop's contract).
func New(p Planner, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{planner: p, log: log}
}

type planHikesRequest struct {
	Origin            string   `json:"origin"`
	Date              string   `json:"date"` // YYYY-MM-DD
	Colors            []string `json:"colors,omitempty"`
	MinDistanceKM     *float64 `json:"min_distance_km,omitempty"`
	MaxDistanceKM     *float64 `json:"max_distance_km,omitempty"`
	LoopOnly          bool     `json:"loop_only,omitempty"`
	LinearOnly        bool     `json:"linear_only,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	MinHikingHours    float64  `json:"min_hiking_hours,omitempty"`
	MaxElevationGainM *float64 `json:"max_elevation_gain_m,omitempty"`
	Difficulty        *string  `json:"difficulty,omitempty"`
}

// PlanHikes handles POST /api/v1/plan: builds a HikeQuery from the
// request body and returns the ranked plans as JSON.
func (h *Handler) PlanHikes(w http.ResponseWriter, r *http.Request) {
	var req planHikesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if req.LoopOnly && req.LinearOnly {
		writeError(w, http.StatusBadRequest, "loop_only and linear_only are mutually exclusive")
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	query := models.HikeQuery{
		Origin:            req.Origin,
		Date:              date,
		Colors:            req.Colors,
		MinDistanceKM:     req.MinDistanceKM,
		MaxDistanceKM:     req.MaxDistanceKM,
		LoopOnly:          req.LoopOnly,
		LinearOnly:        req.LinearOnly,
		MaxResults:        maxResults,
		MinHikingHours:    req.MinHikingHours,
		MaxElevationGainM: req.MaxElevationGainM,
		Difficulty:        req.Difficulty,
	}

	plans, err := h.planner.PlanHikes(query)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

func (h *Handler) writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownOrigin), errors.Is(err, models.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrSaturdayNotSupported):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrFeedUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("plan_hikes failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
