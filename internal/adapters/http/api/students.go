package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/classmatch/internal/adapters/extract"
	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/domain/model"
)

// StudentsHandler handles student CSV uploads.
type StudentsHandler struct {
	deps Dependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps Dependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// HandleProcess handles POST /api/students/process requests. The single CSV
// upload becomes one student profile per row, in row order.
func (h *StudentsHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	const op = "api.process_students"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer file.Close()

	docs, err := extract.ParseStudentCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(docs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			NewKind(op, fmt.Errorf("%w: csv has no student rows", ErrBadRequest)))
		return
	}

	profiles := make([]model.StudentProfile, 0, len(docs))
	for _, doc := range docs {
		result, _, err := processDocument(r.Context(), h.deps, queue.KindStudent, doc)
		if errors.Is(err, ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "extraction_failed", NewKind(op, err))
			return
		}
		profiles = append(profiles, *result.Student)
	}

	writeJSON(w, http.StatusOK, profiles)
}
