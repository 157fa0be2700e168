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

// ShareHandler handles share grants on a todo.
type ShareHandler struct {
	commands *service.CommandService
	queries  *service.QueryService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(commands *service.CommandService, queries *service.QueryService) *ShareHandler {
	return &ShareHandler{commands: commands, queries: queries}
}

// ListShares handles GET /todos/{id}/shares.
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	shares, err := h.queries.GetShares(todoID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	if shares == nil {
		shares = []*domain.TodoShare{}
	}

	response.OK(w, shares)
}

// AddShare handles POST /todos/{id}/shares.
func (h *ShareHandler) AddShare(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")

	var req request.ShareRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	share, err := h.commands.AddShare(todoID, service.ShareInput{
		SharedWithUserID: req.SharedWithUserID,
		Permission:       domain.SharePermission(req.Permission),
	}, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, share)
}

// UpdateShare handles PATCH /todos/{id}/shares/{userID}.
func (h *ShareHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")

	var req request.ShareUpdateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	share, err := h.commands.UpdateShare(todoID, userID, domain.SharePermission(req.Permission), auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, share)
}

// RemoveShare handles DELETE /todos/{id}/shares/{userID}.
func (h *ShareHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")
	auth := middleware.GetAuthContext(r.Context())

	if err := h.commands.RemoveShare(todoID, userID, auth); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
