package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository - interface for account rows.
type UserRepository interface {
	CreateUser(ctx context.Context, req models.SignupRequest, userType models.UserType, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error)
	MarkVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	DeleteUser(ctx context.Context, userID string) error
}

// PostgresUserRepository - UserRepository implementation for the database.
type PostgresUserRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `user_id, full_name, email, phone, password_hash, profile_photo, user_type,
	business_address, city, sector, latitude, longitude, bio,
	availability_days, availability_times, approval_status, account_status,
	is_verified, approved_at, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.ProfilePhoto,
		&u.UserType,
		&u.BusinessAddress,
		&u.City,
		&u.Sector,
		&u.Latitude,
		&u.Longitude,
		&u.Bio,
		&u.AvailabilityDays,
		&u.AvailabilityTimes,
		&u.ApprovalStatus,
		&u.AccountStatus,
		&u.IsVerified,
		&u.ApprovedAt,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account. Clients are approved immediately,
// suppliers start in pending moderation.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, req models.SignupRequest, userType models.UserType, passwordHash string) (*models.User, error) {
	approval := models.ApprovedAccount
	if userType == models.SupplierUser {
		approval = models.PendingApproval
	}

	newUser := models.User{
		ID:                uuid.New().String(),
		FullName:          req.FullName,
		Email:             strings.ToLower(req.Email),
		Phone:             req.Phone,
		PasswordHash:      passwordHash,
		ProfilePhoto:      req.ProfilePhoto,
		UserType:          userType,
		BusinessAddress:   req.BusinessAddress,
		City:              req.City,
		Sector:            req.Sector,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Bio:               req.Bio,
		AvailabilityDays:  req.AvailabilityDays,
		AvailabilityTimes: req.AvailabilityTimes,
		ApprovalStatus:    approval,
		AccountStatus:     models.ActiveAccount,
		CreatedAt:         time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO users (user_id, full_name, email, phone, password_hash, profile_photo, user_type,
                          business_address, city, sector, latitude, longitude, bio,
                          availability_days, availability_times, approval_status, account_status,
                          is_verified, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
   `,
		newUser.ID,
		newUser.FullName,
		newUser.Email,
		newUser.Phone,
		newUser.PasswordHash,
		newUser.ProfilePhoto,
		newUser.UserType,
		newUser.BusinessAddress,
		newUser.City,
		newUser.Sector,
		newUser.Latitude,
		newUser.Longitude,
		newUser.Bio,
		newUser.AvailabilityDays,
		newUser.AvailabilityTimes,
		newUser.ApprovalStatus,
		newUser.AccountStatus,
		false,
		newUser.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &newUser, nil
}

// GetUserByID returns a user by primary key.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.DB.QueryRow(ctx, query, userID))
}

// GetUserByEmail returns a user by email, case-insensitive.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(ctx, query, strings.ToLower(email)))
}

// EmailExists checks whether an account with the email already exists.
func (r *PostgresUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.DB.QueryRow(ctx, query, strings.ToLower(email)).Scan(&exists)
	return exists, err
}

// PhoneExists checks whether an account with the phone already exists.
func (r *PostgresUserRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`
	err := r.DB.QueryRow(ctx, query, phone).Scan(&exists)
	return exists, err
}

// UpdateUser applies the non-nil profile fields and returns the fresh row.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.FullName != nil {
		addSet("full_name", *req.FullName)
	}
	if req.Phone != nil {
		addSet("phone", *req.Phone)
	}
	if req.ProfilePhoto != nil {
		addSet("profile_photo", *req.ProfilePhoto)
	}
	if req.BusinessAddress != nil {
		addSet("business_address", *req.BusinessAddress)
	}
	if req.City != nil {
		addSet("city", *req.City)
	}
	if req.Sector != nil {
		addSet("sector", *req.Sector)
	}
	if req.Latitude != nil {
		addSet("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		addSet("longitude", *req.Longitude)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}
	if req.AvailabilityDays != nil {
		addSet("availability_days", req.AvailabilityDays)
	}
	if req.AvailabilityTimes != nil {
		addSet("availability_times", req.AvailabilityTimes)
	}

	if len(sets) > 0 {
		query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), argIndex)
		args = append(args, userID)
		if _, err := r.DB.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return r.GetUserByID(ctx, userID)
}

// MarkVerified flags the account as OTP-verified.
func (r *PostgresUserRepository) MarkVerified(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET is_verified = TRUE WHERE user_id = $1`, userID)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE user_id = $2`, passwordHash, userID)
	return err
}

// DeleteUser removes the account. Dependent rows cascade.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	return err
}
