package api

import (
	"net/http"

	"github.com/okian/classmatch/internal/domain/model"
)

// RadarHandler serves chart-ready dimension series for profiles.
type RadarHandler struct {
	deps Dependencies
}

// NewRadarHandler creates a new radar handler.
func NewRadarHandler(deps Dependencies) *RadarHandler {
	return &RadarHandler{deps: deps}
}

// radarSeries is one profile's values in canonical dimension order.
type radarSeries struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// radarResponse is the payload a radar chart renders directly.
type radarResponse struct {
	Axes   []string      `json:"axes"`
	Scale  float64       `json:"scale"`
	Series []radarSeries `json:"series"`
}

func dimensionAxes() []string {
	dims := model.Dimensions()
	axes := make([]string, len(dims))
	for i, d := range dims {
		axes[i] = string(d)
	}
	return axes
}

// HandleTeachers handles GET /api/radar/teachers requests.
func (h *RadarHandler) HandleTeachers(w http.ResponseWriter, r *http.Request) {
	const op = "api.radar_teachers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teachers, err := h.deps.Teachers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
		return
	}

	series := make([]radarSeries, len(teachers))
	for i, t := range teachers {
		series[i] = radarSeries{ID: t.TeacherID, Values: t.Vector()}
	}
	writeJSON(w, http.StatusOK, radarResponse{Axes: dimensionAxes(), Scale: model.ScaleMax, Series: series})
}

// HandleStudents handles GET /api/radar/students requests.
func (h *RadarHandler) HandleStudents(w http.ResponseWriter, r *http.Request) {
	const op = "api.radar_students"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	students, err := h.deps.Students(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
		return
	}

	series := make([]radarSeries, len(students))
	for i, s := range students {
		series[i] = radarSeries{ID: s.StudentID, Values: s.Vector()}
	}
	writeJSON(w, http.StatusOK, radarResponse{Axes: dimensionAxes(), Scale: model.ScaleMax, Series: series})
}
