package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// NotificationRepository - interface for notification and device rows.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, senderID, receiverID string, nType models.NotificationType, message string) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, receiverID string, types []string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, receiverID string, notificationIDs []string) (int, error)
	HasUnread(ctx context.Context, receiverID string) (bool, error)
	UpsertDevice(ctx context.Context, userID, playerID string) error
	GetActivePlayerIDs(ctx context.Context, userID string) ([]string, error)
}

// PostgresNotificationRepository - NotificationRepository implementation for the database.
type PostgresNotificationRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository.
func NewPostgresNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

// CreateNotification inserts one notification row.
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, senderID, receiverID string, nType models.NotificationType, message string) (*models.Notification, error) {
	newNotification := models.Notification{
		ID:         uuid.New().String(),
		SenderID:   &senderID,
		ReceiverID: receiverID,
		Type:       nType,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO notifications (notification_id, sender_id, receiver_id, type, message, is_read, created_at)
       VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		newNotification.ID,
		newNotification.SenderID,
		newNotification.ReceiverID,
		newNotification.Type,
		newNotification.Message,
		newNotification.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}
	return &newNotification, nil
}

// GetUserNotifications returns a user's notifications, newest first.
func (r *PostgresNotificationRepository) GetUserNotifications(ctx context.Context, receiverID string, types []string, limit, offset int) ([]models.Notification, error) {
	query := `SELECT notification_id, sender_id, receiver_id, type, message, is_read, created_at
	          FROM notifications WHERE receiver_id = $1`
	args := []interface{}{receiverID}
	argIndex := 2

	if len(types) > 0 {
		query += fmt.Sprintf(" AND type = ANY($%d)", argIndex)
		args = append(args, pq.Array(types))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.SenderID, &n.ReceiverID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks the given notifications as read, own rows only.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, receiverID string, notificationIDs []string) (int, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE receiver_id = $1 AND notification_id = ANY($2)`,
		receiverID, pq.Array(notificationIDs))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// HasUnread checks whether the user has any unread notification.
func (r *PostgresNotificationRepository) HasUnread(ctx context.Context, receiverID string) (bool, error) {
	var hasUnread bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE receiver_id = $1 AND is_read = FALSE)`,
		receiverID).Scan(&hasUnread)
	return hasUnread, err
}

// UpsertDevice registers a push device, reactivating a known player id.
func (r *PostgresNotificationRepository) UpsertDevice(ctx context.Context, userID, playerID string) error {
	_, err := r.DB.Exec(ctx, `
       INSERT INTO user_devices (device_id, user_id, player_id, is_active)
       VALUES ($1, $2, $3, TRUE)
       ON CONFLICT (player_id)
       DO UPDATE SET user_id = EXCLUDED.user_id, is_active = TRUE`,
		uuid.New().String(), userID, playerID)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}
	return nil
}

// GetActivePlayerIDs returns the active push targets of a user.
func (r *PostgresNotificationRepository) GetActivePlayerIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT player_id FROM user_devices WHERE user_id = $1 AND is_active = TRUE`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		playerIDs = append(playerIDs, id)
	}
	return playerIDs, rows.Err()
}
