package repository

import (
	"context"
	"fmt"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HoursRepository - interface for business_hours rows.
type HoursRepository interface {
	GetBusinessHours(ctx context.Context, supplierID string) ([]models.BusinessHours, error)
	ReplaceBusinessHours(ctx context.Context, supplierID string, hours []models.BusinessHours) ([]models.BusinessHours, error)
}

// PostgresHoursRepository - HoursRepository implementation for the database.
type PostgresHoursRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresHoursRepository creates a new PostgresHoursRepository.
func NewPostgresHoursRepository(db *pgxpool.Pool) *PostgresHoursRepository {
	return &PostgresHoursRepository{DB: db}
}

// GetBusinessHours returns a supplier's weekly schedule, Monday first.
func (r *PostgresHoursRepository) GetBusinessHours(ctx context.Context, supplierID string) ([]models.BusinessHours, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, supplier_id, day_of_week, open_time, close_time, closed
		FROM business_hours WHERE supplier_id = $1
		ORDER BY array_position(ARRAY['mon','tue','wed','thu','fri','sat','sun'], day_of_week)`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []models.BusinessHours
	for rows.Next() {
		var h models.BusinessHours
		if err := rows.Scan(&h.ID, &h.SupplierID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.Closed); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// ReplaceBusinessHours swaps the supplier's full weekly schedule.
func (r *PostgresHoursRepository) ReplaceBusinessHours(ctx context.Context, supplierID string, hours []models.BusinessHours) ([]models.BusinessHours, error) {
	if _, err := r.DB.Exec(ctx, `DELETE FROM business_hours WHERE supplier_id = $1`, supplierID); err != nil {
		return nil, fmt.Errorf("failed to clear business hours: %w", err)
	}

	for _, h := range hours {
		_, err := r.DB.Exec(ctx, `
           INSERT INTO business_hours (id, supplier_id, day_of_week, open_time, close_time, closed)
           VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), supplierID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.Closed)
		if err != nil {
			return nil, fmt.Errorf("failed to insert business hours: %w", err)
		}
	}
	return r.GetBusinessHours(ctx, supplierID)
}
