package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/todohub/todohub/internal/api/middleware"
	"github.com/todohub/todohub/internal/api/request"
	"github.com/todohub/todohub/internal/api/response"
	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/service"
)

// SubtaskHandler handles subtask operations on a todo.
type SubtaskHandler struct {
	commands *service.CommandService
}

// NewSubtaskHandler creates a new SubtaskHandler.
func NewSubtaskHandler(commands *service.CommandService) *SubtaskHandler {
	return &SubtaskHandler{commands: commands}
}

// AddSubtask handles POST /todos/{id}/subtasks.
func (h *SubtaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")

	var req request.SubtaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.AddSubtask(todoID, service.SubtaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	}, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, todo)
}

// PatchSubtask handles PATCH /todos/{id}/subtasks/{subtaskID}.
func (h *SubtaskHandler) PatchSubtask(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	subtaskID := chi.URLParam(r, "subtaskID")

	var req request.SubtaskPatchRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.PatchSubtask(todoID, subtaskID, service.SubtaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	}, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

// DeleteSubtask handles DELETE /todos/{id}/subtasks/{subtaskID}.
func (h *SubtaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	subtaskID := chi.URLParam(r, "subtaskID")
	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.DeleteSubtask(todoID, subtaskID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}
