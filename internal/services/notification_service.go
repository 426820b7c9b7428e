package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/notify"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/jackc/pgx/v5"
)

var knownNotificationTypes = []models.NotificationType{
	models.AppointmentReminder,
	models.NewMessage,
	models.SupplierApproval,
	models.SubscriptionReminder,
	models.SubscriptionExpiry,
	models.RequestUpdate,
}

// NotificationService manages in-app notifications and push devices.
type NotificationService struct {
	Repo   repository.NotificationRepository
	Users  repository.UserRepository
	Pusher notify.Pusher
	Log    logger.ILogger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository,
	pusher notify.Pusher, log logger.ILogger) *NotificationService {
	return &NotificationService{Repo: repo, Users: users, Pusher: pusher, Log: log}
}

// GetUserNotifications lists the actor's notifications, optionally
// filtered by type, newest first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string,
	types []string, limitStr, offsetStr string) ([]models.Notification, error) {
	for _, t := range types {
		if !isKnownNotificationType(models.NotificationType(t)) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "unknown notification type: "+t)
		}
	}
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	notifications, err := s.Repo.GetUserNotifications(ctx, userID, types, limit, offset)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return notifications, nil
}

// MarkRead marks the given notifications as read. Rows belonging to
// other users are silently skipped.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, req models.MarkReadRequest) (int, error) {
	if len(req.NotificationIDs) == 0 {
		return 0, models.NewErrorResponse(http.StatusBadRequest, "missing required field: notification_ids")
	}
	updated, err := s.Repo.MarkRead(ctx, userID, req.NotificationIDs)
	if err != nil {
		return 0, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return updated, nil
}

// HasUnread reports whether the actor has any unread notification.
func (s *NotificationService) HasUnread(ctx context.Context, userID string) (bool, error) {
	hasUnread, err := s.Repo.HasUnread(ctx, userID)
	if err != nil {
		return false, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return hasUnread, nil
}

// RegisterDevice stores a push player id for the actor.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req models.RegisterDeviceRequest) error {
	if req.PlayerID == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required field: player_id")
	}
	if err := s.Repo.UpsertDevice(ctx, userID, req.PlayerID); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return nil
}

// SendNotification creates a notification row for the receiver and
// attempts a push. Push failures never fail the call.
func (s *NotificationService) SendNotification(ctx context.Context, senderID string,
	req models.SendNotificationRequest) (*models.Notification, error) {
	if req.ReceiverID == "" || req.Message == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: receiver_id or message")
	}
	if req.Type == "" {
		req.Type = models.NewMessage
	}
	if !isKnownNotificationType(req.Type) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "unknown notification type: "+string(req.Type))
	}

	if _, err := s.Users.GetUserByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "receiver not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	notification, err := s.Repo.CreateNotification(ctx, senderID, req.ReceiverID, req.Type, req.Message)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	playerIDs, err := s.Repo.GetActivePlayerIDs(ctx, req.ReceiverID)
	if err != nil {
		s.Log.Warning("failed to load push devices", logger.Error(err))
		return notification, nil
	}
	if len(playerIDs) > 0 {
		if err := s.Pusher.Send(ctx, playerIDs, "FixCars", req.Message, nil); err != nil {
			s.Log.Warning("push delivery failed", logger.Error(err))
		}
	}
	return notification, nil
}

func isKnownNotificationType(t models.NotificationType) bool {
	for _, known := range knownNotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}
