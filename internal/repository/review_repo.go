package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository - interface for review rows.
type ReviewRepository interface {
	GetReviews(ctx context.Context, supplierID string, limit, offset int) ([]models.Review, error)
	UpsertReview(ctx context.Context, clientID, supplierID string, req models.ReviewRequest) (*models.Review, error)
	GetReviewStats(ctx context.Context, supplierID string) (float64, int, error)
}

// PostgresReviewRepository - ReviewRepository implementation for the database.
type PostgresReviewRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository.
func NewPostgresReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{DB: db}
}

// GetReviews returns a supplier's reviews, newest first.
func (r *PostgresReviewRepository) GetReviews(ctx context.Context, supplierID string, limit, offset int) ([]models.Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rv.review_id, rv.client_id, rv.supplier_id, u.full_name, rv.rating, COALESCE(rv.comment, ''), rv.created_at
		FROM reviews rv
		JOIN users u ON u.user_id = rv.client_id
		WHERE rv.supplier_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`, supplierID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ClientID, &rv.SupplierID, &rv.ClientName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// UpsertReview creates or replaces the client's review of a supplier.
func (r *PostgresReviewRepository) UpsertReview(ctx context.Context, clientID, supplierID string, req models.ReviewRequest) (*models.Review, error) {
	newReview := models.Review{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		SupplierID: supplierID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO reviews (review_id, client_id, supplier_id, rating, comment, created_at)
       VALUES ($1, $2, $3, $4, $5, $6)
       ON CONFLICT (client_id, supplier_id)
       DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, created_at = EXCLUDED.created_at`,
		newReview.ID,
		newReview.ClientID,
		newReview.SupplierID,
		newReview.Rating,
		newReview.Comment,
		newReview.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	err = r.DB.QueryRow(ctx,
		`SELECT review_id FROM reviews WHERE client_id = $1 AND supplier_id = $2`,
		clientID, supplierID).Scan(&newReview.ID)
	if err != nil {
		return nil, err
	}
	return &newReview, nil
}

// GetReviewStats returns the average rating and review count for a supplier.
func (r *PostgresReviewRepository) GetReviewStats(ctx context.Context, supplierID string) (float64, int, error) {
	var score float64
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE supplier_id = $1`,
		supplierID).Scan(&score, &count)
	return score, count, err
}
