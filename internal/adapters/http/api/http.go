// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/adapters/repository"
	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SeenAndRecord and Unrecord implement document-digest idempotency.
	SeenAndRecord(ctx context.Context, digest string) bool
	Unrecord(ctx context.Context, digest string)

	// Enqueue pushes an extraction job for async processing.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, j queue.Job) bool

	// Read operations expose stored profiles and runs.
	TeacherByDigest(ctx context.Context, digest string) (model.TeacherProfile, error)
	StudentByDigest(ctx context.Context, digest string) (model.StudentProfile, error)
	Teachers(ctx context.Context) ([]model.TeacherProfile, error)
	Students(ctx context.Context) ([]model.StudentProfile, error)
	Runs(ctx context.Context) ([]repository.MatchRun, error)
	Run(ctx context.Context, runID string) (repository.MatchRun, error)

	// Match scores, assigns and balances, then stores the run.
	Match(ctx context.Context, teachers []model.TeacherProfile, students []model.StudentProfile, constraints model.Constraints) (repository.MatchRun, error)

	// Chat assistant operations.
	IndexProfiles(ctx context.Context, teachers []model.TeacherProfile, students []model.StudentProfile) (teacherCount, studentCount int, err error)
	Ask(ctx context.Context, question string, history []chat.Message) (chat.Answer, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	teachersHandler *TeachersHandler
	studentsHandler *StudentsHandler
	matchHandler    *MatchHandler
	matchesHandler  *MatchesHandler
	chatHandler     *ChatHandler
	radarHandler    *RadarHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		teachersHandler: NewTeachersHandler(deps),
		studentsHandler: NewStudentsHandler(deps),
		matchHandler:    NewMatchHandler(deps),
		matchesHandler:  NewMatchesHandler(deps),
		chatHandler:     NewChatHandler(deps),
		radarHandler:    NewRadarHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/api/teachers/process", MetricsMiddleware(s.teachersHandler.HandleProcess, "teachers_process"))
	mux.HandleFunc("/api/students/process", MetricsMiddleware(s.studentsHandler.HandleProcess, "students_process"))
	mux.HandleFunc("/api/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/api/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches"))
	mux.HandleFunc("/api/matches/", MetricsMiddleware(s.matchesHandler.HandleGet, "matches_get"))
	mux.HandleFunc("/api/chat/index", MetricsMiddleware(s.chatHandler.HandleIndex, "chat_index"))
	mux.HandleFunc("/api/chat/query", MetricsMiddleware(s.chatHandler.HandleQuery, "chat_query"))
	mux.HandleFunc("/api/radar/teachers", MetricsMiddleware(s.radarHandler.HandleTeachers, "radar_teachers"))
	mux.HandleFunc("/api/radar/students", MetricsMiddleware(s.radarHandler.HandleStudents, "radar_students"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
