package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/services"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"
)

// CatalogHandler serves the read-only reference data.
type CatalogHandler struct {
	Service *services.CatalogService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, log logger.ILogger, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// GetBrands lists all car brands.
func (h *CatalogHandler) GetBrands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	brands, err := h.Service.GetBrands(ctx)
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch brands")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"brands":  brands,
	})
}

// GetServices lists all services, optionally filtered by category.
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var (
		rows []models.Service
		err  error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		rows, err = h.Service.GetServicesByCategory(ctx, category)
	} else {
		rows, err = h.Service.GetServices(ctx)
	}
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch services")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"services": rows,
	})
}

// GetAppLinks returns the public store links for the mobile apps.
func (h *CatalogHandler) GetAppLinks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	links, err := h.Service.GetAppLinks(ctx)
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch app links")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"links":   links,
	})
}
