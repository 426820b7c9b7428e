package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferralRepository - interface for sales representatives and referrals.
type ReferralRepository interface {
	GetRepByCode(ctx context.Context, referralCode string) (*models.SalesRepresentative, error)
	ReferralExists(ctx context.Context, supplierID string) (bool, error)
	CreateReferral(ctx context.Context, supplierID, representativeID string) (*models.SupplierReferral, error)
}

// PostgresReferralRepository - ReferralRepository implementation for the database.
type PostgresReferralRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresReferralRepository creates a new PostgresReferralRepository.
func NewPostgresReferralRepository(db *pgxpool.Pool) *PostgresReferralRepository {
	return &PostgresReferralRepository{DB: db}
}

// GetRepByCode looks a representative up by referral code.
func (r *PostgresReferralRepository) GetRepByCode(ctx context.Context, referralCode string) (*models.SalesRepresentative, error) {
	var rep models.SalesRepresentative
	err := r.DB.QueryRow(ctx, `
		SELECT rep_id, full_name, email, phone, referral_code, approved
		FROM sales_representatives WHERE referral_code = $1`, referralCode).Scan(
		&rep.ID, &rep.FullName, &rep.Email, &rep.Phone, &rep.ReferralCode, &rep.Approved)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// ReferralExists checks whether the supplier is already referred.
func (r *PostgresReferralRepository) ReferralExists(ctx context.Context, supplierID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM supplier_referrals WHERE supplier_id = $1)`,
		supplierID).Scan(&exists)
	return exists, err
}

// CreateReferral links a supplier to the representative who recruited them.
func (r *PostgresReferralRepository) CreateReferral(ctx context.Context, supplierID, representativeID string) (*models.SupplierReferral, error) {
	newReferral := models.SupplierReferral{
		ID:               uuid.New().String(),
		SupplierID:       supplierID,
		RepresentativeID: representativeID,
		CreatedAt:        time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO supplier_referrals (id, supplier_id, representative_id, created_at)
       VALUES ($1, $2, $3, $4)`,
		newReferral.ID, newReferral.SupplierID, newReferral.RepresentativeID, newReferral.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert referral: %w", err)
	}
	return &newReferral, nil
}
