package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthRepository - interface for OTP and password reset token rows.
type AuthRepository interface {
	CreateOTP(ctx context.Context, userID, code string, expiresAt time.Time) (*models.OTPVerification, error)
	GetLatestOTP(ctx context.Context, userID string) (*models.OTPVerification, error)
	MarkOTPVerified(ctx context.Context, otpID string) error
	CreateResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, tokenID string) error
}

// PostgresAuthRepository - AuthRepository implementation for the database.
type PostgresAuthRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository.
func NewPostgresAuthRepository(db *pgxpool.Pool) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateOTP inserts a new verification code for the user.
func (r *PostgresAuthRepository) CreateOTP(ctx context.Context, userID, code string, expiresAt time.Time) (*models.OTPVerification, error) {
	otp := models.OTPVerification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO otp_verifications (id, user_id, code, expires_at, verified, created_at)
       VALUES ($1, $2, $3, $4, FALSE, $5)`,
		otp.ID, otp.UserID, otp.Code, otp.ExpiresAt, otp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert otp: %w", err)
	}
	return &otp, nil
}

// GetLatestOTP returns the most recent code issued to the user.
func (r *PostgresAuthRepository) GetLatestOTP(ctx context.Context, userID string) (*models.OTPVerification, error) {
	var otp models.OTPVerification
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, code, expires_at, verified, created_at
		FROM otp_verifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1`, userID).Scan(
		&otp.ID, &otp.UserID, &otp.Code, &otp.ExpiresAt, &otp.Verified, &otp.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// MarkOTPVerified consumes a code.
func (r *PostgresAuthRepository) MarkOTPVerified(ctx context.Context, otpID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE otp_verifications SET verified = TRUE WHERE id = $1`, otpID)
	return err
}

// CreateResetToken inserts a password reset token for the user.
func (r *PostgresAuthRepository) CreateResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx, `
       INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used)
       VALUES ($1, $2, $3, $4, FALSE)`,
		uuid.New().String(), userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}
	return nil
}

// GetResetToken looks a reset token up by its value.
func (r *PostgresAuthRepository) GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, used
		FROM password_reset_tokens WHERE token = $1`, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkTokenUsed consumes a reset token.
func (r *PostgresAuthRepository) MarkTokenUsed(ctx context.Context, tokenID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE password_reset_tokens SET used = TRUE WHERE id = $1`, tokenID)
	return err
}
