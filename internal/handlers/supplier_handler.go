package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/services"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/spf13/cast"
)

// SupplierHandler serves discovery, supplier profiles, offerings,
// business hours and referral attribution.
type SupplierHandler struct {
	Service *services.SupplierService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService, log logger.ILogger, timeout time.Duration) *SupplierHandler {
	return &SupplierHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// SearchSuppliers handles the ranked discovery query.
func (h *SupplierHandler) SearchSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	filter := models.SearchFilter{
		Category: query.Get("category"),
		Brand:    query.Get("brand"),
		Tags:     query["tags"],
	}
	if raw := query.Get("lat"); raw != "" {
		lat, err := cast.ToFloat64E(raw)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusBadRequest, "invalid lat parameter")
			return
		}
		filter.Latitude = &lat
	}
	if raw := query.Get("lng"); raw != "" {
		lng, err := cast.ToFloat64E(raw)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusBadRequest, "invalid lng parameter")
			return
		}
		filter.Longitude = &lng
	}

	results, err := h.Service.SearchSuppliers(ctx, filter)
	if err != nil {
		respondError(h.Log, w, err, "failed to search suppliers")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"suppliers": results,
	})
}

// GetSupplierSummary returns the compact supplier card.
func (h *SupplierHandler) GetSupplierSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.GetSupplierSummary(ctx, r.PathValue("supplierId"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch supplier summary")
		return
	}

	utils.SendJSON(w, http.StatusOK, summary)
}

// GetMySummary returns the authenticated supplier's own card.
func (h *SupplierHandler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	summary, err := h.Service.GetSupplierSummary(ctx, claims.UserID)
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch supplier summary")
		return
	}

	utils.SendJSON(w, http.StatusOK, summary)
}

// GetSupplierProfile returns the full supplier page.
func (h *SupplierHandler) GetSupplierProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	profile, err := h.Service.GetSupplierProfile(ctx, r.PathValue("supplierId"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch supplier profile")
		return
	}

	utils.SendJSON(w, http.StatusOK, profile)
}

// GetOfferingOptions returns the form data for creating offerings.
func (h *SupplierHandler) GetOfferingOptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	options, err := h.Service.GetOfferingOptions(ctx)
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch offering options")
		return
	}

	utils.SendJSON(w, http.StatusOK, options)
}

// CreateOfferings handles the bulk offering upload for the actor.
func (h *SupplierHandler) CreateOfferings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CreateOfferingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	offerings, err := h.Service.CreateOfferings(ctx, claims.UserID, claims.UserType, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to create offerings")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"offerings": offerings,
	})
}

// GetBusinessHours returns a supplier's weekly schedule.
func (h *SupplierHandler) GetBusinessHours(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	hours, err := h.Service.GetBusinessHours(ctx, r.PathValue("supplierId"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch business hours")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"business_hours": hours,
	})
}

// UpdateBusinessHours replaces the actor's weekly schedule.
func (h *SupplierHandler) UpdateBusinessHours(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.UpdateBusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	hours, err := h.Service.UpdateBusinessHours(ctx, claims.UserID, claims.UserType, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to update business hours")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"business_hours": hours,
	})
}

// ReferredBy records which sales representative brought the supplier in.
func (h *SupplierHandler) ReferredBy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ReferredByRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	referral, err := h.Service.ReferredBy(ctx, claims.UserID, claims.UserType, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to record referral")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"referral": referral,
	})
}
