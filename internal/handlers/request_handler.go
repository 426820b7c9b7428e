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

// RequestHandler serves the service request workflow.
type RequestHandler struct {
	Service *services.RequestService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *services.RequestService, log logger.ILogger, timeout time.Duration) *RequestHandler {
	return &RequestHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// CreateRequest opens a new service request from the actor to a supplier.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	request, err := h.Service.CreateRequest(ctx, claims.UserID, claims.UserType, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to create request")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"request": request,
	})
}

// UpdateRequestStatus advances a request through its workflow.
func (h *RequestHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.UpdateRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	resp, err := h.Service.UpdateRequestStatus(ctx, claims.UserID, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to update request status")
		return
	}

	utils.SendJSON(w, http.StatusOK, resp)
}

// GetUserRequests lists the actor's requests.
func (h *RequestHandler) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	claims := actorClaims(r)
	requests, err := h.Service.GetUserRequests(ctx, claims.UserID, claims.UserType, query.Get("limit"), query.Get("offset"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch requests")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"requests": requests,
	})
}

// PendingCount returns the number of pending requests for a supplier.
func (h *RequestHandler) PendingCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	count, err := h.Service.PendingCount(ctx, claims.UserID, claims.UserType)
	if err != nil {
		respondError(h.Log, w, err, "failed to count pending requests")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"pending_count": count,
	})
}
