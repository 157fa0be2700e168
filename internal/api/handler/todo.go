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

// TodoHandler handles todo CRUD and listing operations.
type TodoHandler struct {
	commands *service.CommandService
	queries  *service.QueryService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(commands *service.CommandService, queries *service.QueryService) *TodoHandler {
	return &TodoHandler{commands: commands, queries: queries}
}

// CreateTodo handles POST /todos.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req request.TodoRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.Create(todoInput(&req), auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, todo)
}

// GetTodo handles GET /todos/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.queries.GetByID(todoID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

// UpdateTodo handles PUT /todos/{id}.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")

	var req request.TodoRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.Update(todoID, todoInput(&req), auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

// PatchTodo handles PATCH /todos/{id}.
func (h *TodoHandler) PatchTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")

	var req request.TodoPatchRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.Patch(todoID, todoPatch(&req), auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

// DeleteTodo handles DELETE /todos/{id}.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	if err := h.commands.Delete(todoID, auth); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// ListTodos handles GET /todos.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	params, errors := request.ParseListParams(r)
	if len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todos, total, err := h.queries.List(auth, listInput(params))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, todos, params.Page, params.Size, total)
}

// ListAllTodos handles GET /todos/all.
func (h *TodoHandler) ListAllTodos(w http.ResponseWriter, r *http.Request) {
	params, errors := request.ParseListParams(r)
	if len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	auth := middleware.GetAuthContext(r.Context())

	todos, err := h.queries.ListAsList(auth, listInput(params))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todos)
}

// ListTodosByUser handles GET /todos/user/{userID}.
func (h *TodoHandler) ListTodosByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	auth := middleware.GetAuthContext(r.Context())

	todos, err := h.queries.GetByUser(userID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todos)
}

// DeleteTodosByUser handles DELETE /todos/user/{userID}.
func (h *TodoHandler) DeleteTodosByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	auth := middleware.GetAuthContext(r.Context())

	deleted, err := h.commands.DeleteAllByUser(userID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]int64{"deleted": deleted})
}

// ArchiveTodo handles POST /todos/{id}/archive.
func (h *TodoHandler) ArchiveTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.Archive(todoID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

// RestoreTodo handles POST /todos/{id}/restore.
func (h *TodoHandler) RestoreTodo(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "id")
	auth := middleware.GetAuthContext(r.Context())

	todo, err := h.commands.Restore(todoID, auth)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, todo)
}

func todoInput(req *request.TodoRequest) service.TodoInput {
	input := service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		DueDate:     req.DueDate,
		RemindAt:    req.RemindAt,
		Priority:    priorityPtr(req.Priority),
		Category:    req.Category,
		Tags:        req.Tags,
		Subtasks:    subtaskInputs(req.Subtasks),
	}
	if req.Completed != nil {
		input.Completed = *req.Completed
	}
	return input
}

func todoPatch(req *request.TodoPatchRequest) service.TodoPatch {
	return service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		UserID:      req.UserID,
		DueDate:     req.DueDate,
		RemindAt:    req.RemindAt,
		Priority:    priorityPtr(req.Priority),
		Category:    req.Category,
		Tags:        req.Tags,
		Subtasks:    subtaskInputs(req.Subtasks),
	}
}

func listInput(params request.ListParams) service.ListInput {
	return service.ListInput{
		Category:  params.Category,
		Tag:       params.Tag,
		Search:    params.Search,
		Completed: params.Completed,
		Archived:  params.Archived,
		Page:      params.Page,
		Size:      params.Size,
		Sort:      params.Sort,
	}
}

func priorityPtr(raw *string) *domain.Priority {
	if raw == nil {
		return nil
	}
	priority := domain.Priority(*raw)
	return &priority
}

func subtaskInputs(reqs []*request.SubtaskRequest) []*service.SubtaskInput {
	if reqs == nil {
		return nil
	}
	inputs := make([]*service.SubtaskInput, 0, len(reqs))
	for _, req := range reqs {
		if req == nil {
			continue
		}
		inputs = append(inputs, &service.SubtaskInput{
			ID:        req.ID,
			Title:     req.Title,
			Completed: req.Completed,
		})
	}
	return inputs
}
