package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/classmatch/internal/adapters/extract"
	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/domain/model"
)

// Upload limits for teacher documents.
const (
	maxUploadBytes   = 10 << 20 // whole multipart form
	maxDocumentBytes = 1 << 20  // single document
)

// TeachersHandler handles teacher document uploads.
type TeachersHandler struct {
	deps Dependencies
}

// NewTeachersHandler creates a new teachers handler.
func NewTeachersHandler(deps Dependencies) *TeachersHandler {
	return &TeachersHandler{deps: deps}
}

// HandleProcess handles POST /api/teachers/process requests. Each uploaded
// document becomes one teacher profile; the response lists them in upload
// order.
func (h *TeachersHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	const op = "api.process_teachers"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			NewKind(op, fmt.Errorf("%w: no files uploaded", ErrBadRequest)))
		return
	}

	profiles := make([]model.TeacherProfile, 0, len(files))
	for idx, header := range files {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes))
		_ = file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}

		doc, err := extract.ReadDocument(header.Filename, data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		doc.Name = teacherName(doc.Text, fmt.Sprintf("Teacher_%d", idx+1))

		result, _, err := processDocument(r.Context(), h.deps, queue.KindTeacher, doc)
		if errors.Is(err, ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "extraction_failed", NewKind(op, err))
			return
		}
		profiles = append(profiles, *result.Teacher)
	}

	writeJSON(w, http.StatusOK, profiles)
}
