package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/model"
)

// ChatHandler exposes the profile chat assistant.
type ChatHandler struct {
	deps Dependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps Dependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

// chatIndexRequest mirrors POST /api/chat/index. Omitted teachers or
// students default to every stored profile.
type chatIndexRequest struct {
	Teachers []model.TeacherProfile `json:"teachers"`
	Students []model.StudentProfile `json:"students"`
}

type chatIndexResponse struct {
	OK       bool `json:"ok"`
	Teachers int  `json:"teachers"`
	Students int  `json:"students"`
}

// HandleIndex handles POST /api/chat/index requests, rebuilding the
// assistant's vector index.
func (h *ChatHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat_index"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req chatIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	var err error
	if req.Teachers == nil {
		if req.Teachers, err = h.deps.Teachers(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
			return
		}
	}
	if req.Students == nil {
		if req.Students, err = h.deps.Students(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "store_failed", NewKind(op, err))
			return
		}
	}

	teacherCount, studentCount, err := h.deps.IndexProfiles(ctx, req.Teachers, req.Students)
	if errors.Is(err, chat.ErrNothingToIndex) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "index_failed", NewKind(op, err))
		return
	}

	writeJSON(w, http.StatusOK, chatIndexResponse{OK: true, Teachers: teacherCount, Students: studentCount})
}

// chatQueryRequest mirrors POST /api/chat/query.
type chatQueryRequest struct {
	Question string         `json:"question"`
	History  []chat.Message `json:"history"`
}

// HandleQuery handles POST /api/chat/query requests.
func (h *ChatHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat_query"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req chatQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, chat.ErrEmptyQuestion))
		return
	}

	answer, err := h.deps.Ask(r.Context(), req.Question, req.History)
	if errors.Is(err, chat.ErrEmptyQuestion) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chat_failed", NewKind(op, err))
		return
	}

	writeJSON(w, http.StatusOK, answer)
}
