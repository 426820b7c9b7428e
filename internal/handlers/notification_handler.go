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

// NotificationHandler serves in-app notifications and push devices.
type NotificationHandler struct {
	Service *services.NotificationService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, log logger.ILogger, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// GetUserNotifications lists the actor's notifications.
func (h *NotificationHandler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	claims := actorClaims(r)
	notifications, err := h.Service.GetUserNotifications(ctx, claims.UserID, query["type"], query.Get("limit"), query.Get("offset"))
	if err != nil {
		respondError(h.Log, w, err, "failed to fetch notifications")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"notifications": notifications,
	})
}

// MarkRead marks the given notifications as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	updated, err := h.Service.MarkRead(ctx, claims.UserID, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to mark notifications read")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": updated,
	})
}

// HasUnread reports whether the actor has unread notifications.
func (h *NotificationHandler) HasUnread(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	hasUnread, err := h.Service.HasUnread(ctx, claims.UserID)
	if err != nil {
		respondError(h.Log, w, err, "failed to check unread notifications")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"has_unread": hasUnread,
	})
}

// RegisterDevice stores a push player id for the actor.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	if err := h.Service.RegisterDevice(ctx, claims.UserID, req); err != nil {
		respondError(h.Log, w, err, "failed to register device")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SendNotification creates a notification for another user.
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	notification, err := h.Service.SendNotification(ctx, claims.UserID, req)
	if err != nil {
		respondError(h.Log, w, err, "failed to send notification")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"notification": notification,
	})
}
