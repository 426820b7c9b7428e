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
)

// CarHandler serves client vehicles and their obligations.
type CarHandler struct {
	Service *services.CarService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *services.CarService, log logger.ILogger, timeout time.Duration) *CarHandler {
	return &CarHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// GetUserCars lists the actor's cars.
func (h *CarHandler) GetUserCars(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	cars, err := h.Service.GetUserCars(ctx, claims.UserID)
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch cars")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cars":    cars,
	})
}

// CreateCar registers a vehicle for the actor.
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	car, err := h.Service.CreateCar(ctx, claims.UserID, claims.UserType, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to create car")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"car":     car,
	})
}

// UpdateCar replaces a car's details.
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	car, err := h.Service.UpdateCar(ctx, claims.UserID, r.PathValue("carId"), req)
	if err != nil {
		respondError(h.Log, w, err, "failed to update car")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"car":     car,
	})
}

// CreateObligation attaches an obligation to the actor's car.
func (h *CarHandler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CarObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	obligation, err := h.Service.CreateObligation(ctx, claims.UserID, r.PathValue("carId"), req)
	if err != nil {
		respondError(h.Log, w, err, "failed to create obligation")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"obligation": obligation,
	})
}

// UpdateObligation replaces an obligation on the actor's car.
func (h *CarHandler) UpdateObligation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CarObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	obligation, err := h.Service.UpdateObligation(ctx, claims.UserID, r.PathValue("carId"), r.PathValue("obligationId"), req)
	if err != nil {
		respondError(h.Log, w, err, "failed to update obligation")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"obligation": obligation,
	})
}

// DeleteObligation removes an obligation from the actor's car.
func (h *CarHandler) DeleteObligation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	if err := h.Service.DeleteObligation(ctx, claims.UserID, r.PathValue("carId"), r.PathValue("obligationId")); err != nil {
		respondError(h.Log, w, err, "failed to delete obligation")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}
