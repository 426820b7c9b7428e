package models

import "time"

// NotificationType classifies a notification row.
type NotificationType string

const (
	AppointmentReminder  NotificationType = "appointment_reminder"
	NewMessage           NotificationType = "new_message"
	SupplierApproval     NotificationType = "supplier_approval"
	SubscriptionReminder NotificationType = "subscription_reminder"
	SubscriptionExpiry   NotificationType = "subscription_expiry"
	RequestUpdate        NotificationType = "request_update"
)

// Notification represents one in-app notification row.
// SenderID is nil once the sending account is deleted.
type Notification struct {
	ID         string           `json:"notification_id"`
	SenderID   *string          `json:"sender_id"`
	ReceiverID string           `json:"receiver_id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// SendNotificationRequest is the body of the send-notification endpoint.
type SendNotificationRequest struct {
	ReceiverID string           `json:"receiver_id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
}

// MarkReadRequest lists the notification ids to mark as read.
type MarkReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

// UserDevice represents a registered push target for a user.
type UserDevice struct {
	ID       string `json:"device_id"`
	UserID   string `json:"user_id"`
	PlayerID string `json:"player_id"`
	IsActive bool   `json:"is_active"`
}

// RegisterDeviceRequest is the body of the register-device endpoint.
type RegisterDeviceRequest struct {
	PlayerID string `json:"player_id"`
}
