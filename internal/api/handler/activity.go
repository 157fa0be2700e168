package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/todohub/todohub/internal/api/middleware"
	"github.com/todohub/todohub/internal/api/response"
	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/service"
)

// ActivityHandler serves the audit trail of a todo.
type ActivityHandler struct {
	queries *service.QueryService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(queries *service.QueryService) *ActivityHandler {
	return &ActivityHandler{queries: queries}
}

// GetTodoActivity handles GET /todos/{id}/activity.
func (h *ActivityHandler) GetTodoActivity(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	entries, err := h.queries.GetActivity(todoID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*domain.TodoActivity{}
	}

	response.OK(w, entries)
}
