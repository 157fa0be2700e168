package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/todohub/todohub/internal/api/handler"
	"github.com/todohub/todohub/internal/api/middleware"
	"github.com/todohub/todohub/internal/service"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(db *sql.DB) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.RealIP)

	commands := service.NewCommandService(db)
	queries := service.NewQueryService(db)

	systemHandler := handler.NewSystemHandler(db)
	todoHandler := handler.NewTodoHandler(commands, queries)
	subtaskHandler := handler.NewSubtaskHandler(commands)
	shareHandler := handler.NewShareHandler(commands, queries)
	activityHandler := handler.NewActivityHandler(queries)

	// System routes (no caller identity needed)
	r.Get("/v1/health", systemHandler.Health)

	// Todo routes, all behind the gateway identity headers
	r.Route("/v1/todos", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Get("/", todoHandler.ListTodos)
		r.Post("/", todoHandler.CreateTodo)
		r.Get("/all", todoHandler.ListAllTodos)

		r.Get("/user/{userID}", todoHandler.ListTodosByUser)
		r.Delete("/user/{userID}", todoHandler.DeleteTodosByUser)

		r.Get("/{id}", todoHandler.GetTodo)
		r.Put("/{id}", todoHandler.UpdateTodo)
		r.Patch("/{id}", todoHandler.PatchTodo)
		r.Delete("/{id}", todoHandler.DeleteTodo)

		r.Post("/{id}/archive", todoHandler.ArchiveTodo)
		r.Post("/{id}/restore", todoHandler.RestoreTodo)

		r.Post("/{id}/subtasks", subtaskHandler.AddSubtask)
		r.Patch("/{id}/subtasks/{subtaskID}", subtaskHandler.PatchSubtask)
		r.Delete("/{id}/subtasks/{subtaskID}", subtaskHandler.DeleteSubtask)

		r.Get("/{id}/shares", shareHandler.ListShares)
		r.Post("/{id}/shares", shareHandler.AddShare)
		r.Patch("/{id}/shares/{userID}", shareHandler.UpdateShare)
		r.Delete("/{id}/shares/{userID}", shareHandler.RemoveShare)

		r.Get("/{id}/activity", activityHandler.GetTodoActivity)
	})

	return r
}
