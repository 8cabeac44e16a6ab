package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/classmatch/internal/domain/model"
)

// MatchHandler runs the matching pipeline.
type MatchHandler struct {
	deps Dependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// matchRequest mirrors the POST /api/match payload. Omitted teachers or
// students default to every stored profile.
type matchRequest struct {
	Teachers    []model.TeacherProfile `json:"teachers"`
	Students    []model.StudentProfile `json:"students"`
	Constraints *model.Constraints     `json:"constraints"`
}

// HandleMatch handles POST /api/match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	teachers := req.Teachers
	students := req.Students
	var err error
	if teachers == nil {
		if teachers, err = h.deps.Teachers(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
			return
		}
	}
	if students == nil {
		if students, err = h.deps.Students(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
			return
		}
	}

	constraints := model.DefaultConstraints()
	if req.Constraints != nil {
		constraints = *req.Constraints
	}

	run, err := h.deps.Match(ctx, teachers, students, constraints)
	if errors.Is(err, model.ErrInvalidConstraints) {
		writeError(w, http.StatusBadRequest, "invalid_constraints", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "match_failed", NewKind(op, fmt.Errorf("matching failed: %w", err)))
		return
	}

	writeJSON(w, http.StatusOK, run)
}
