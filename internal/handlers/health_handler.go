package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler answers liveness probes and checks the database.
type HealthHandler struct {
	DB      *pgxpool.Pool
	Timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *pgxpool.Pool, timeout time.Duration) *HealthHandler {
	return &HealthHandler{DB: db, Timeout: timeout}
}

// Ping reports service and database health.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "ok",
	})
}
