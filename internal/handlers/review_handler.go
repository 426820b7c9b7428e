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

// ReviewHandler serves supplier reviews.
type ReviewHandler struct {
	Service *services.ReviewService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService, log logger.ILogger, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// GetReviews lists a supplier's reviews, newest first.
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	reviews, err := h.Service.GetReviews(ctx, r.PathValue("supplierId"), query.Get("limit"), query.Get("offset"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch reviews")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reviews": reviews,
	})
}

// UpsertReview creates or replaces the actor's review of a supplier.
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	review, err := h.Service.UpsertReview(ctx, claims.UserID, claims.UserType, r.PathValue("supplierId"), req)
	if err != nil {
		respondError(h.Log, w, err, "failed to save review")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"review":  review,
	})
}
