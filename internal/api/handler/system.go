package handler

import (
	"database/sql"
	"net/http"

	"github.com/todohub/todohub/internal/api/response"
	"github.com/todohub/todohub/internal/domain"
)

// SystemHandler handles system-level operations.
type SystemHandler struct {
	db *sql.DB
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health handles GET /v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}
