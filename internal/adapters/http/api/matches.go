package api

import (
	"net/http"
	"strings"
)

// MatchesHandler exposes stored match runs.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleList handles GET /api/matches requests, newest run first.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	runs, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleGet handles GET /api/matches/{id} requests.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	runID := strings.TrimPrefix(r.URL.Path, "/api/matches/")
	if runID == "" || strings.Contains(runID, "/") {
		http.NotFound(w, r)
		return
	}
	run, err := h.deps.Run(r.Context(), runID)
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
