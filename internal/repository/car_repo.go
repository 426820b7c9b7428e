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

// CarRepository - interface for car and obligation rows.
type CarRepository interface {
	GetUserCars(ctx context.Context, ownerID string) ([]models.Car, error)
	GetCarByID(ctx context.Context, carID string) (*models.Car, error)
	CreateCar(ctx context.Context, ownerID string, req models.CarRequest) (*models.Car, error)
	UpdateCar(ctx context.Context, carID string, req models.CarRequest) (*models.Car, error)
	CreateObligation(ctx context.Context, carID string, req models.CarObligationRequest) (*models.CarObligation, error)
	GetObligationByID(ctx context.Context, obligationID string) (*models.CarObligation, error)
	UpdateObligation(ctx context.Context, obligationID string, req models.CarObligationRequest) (*models.CarObligation, error)
	DeleteObligation(ctx context.Context, carID, obligationID string) (bool, error)
}

// PostgresCarRepository - CarRepository implementation for the database.
type PostgresCarRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCarRepository creates a new PostgresCarRepository.
func NewPostgresCarRepository(db *pgxpool.Pool) *PostgresCarRepository {
	return &PostgresCarRepository{DB: db}
}

// GetUserCars returns a client's cars with obligations attached.
func (r *PostgresCarRepository) GetUserCars(ctx context.Context, ownerID string) ([]models.Car, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT cr.car_id, cr.owner_id, cr.brand_id, b.brand_name, cr.model, cr.year,
		       cr.license_plate, COALESCE(cr.vin, ''), cr.created_at
		FROM cars cr
		JOIN car_brands b ON b.brand_id = cr.brand_id
		WHERE cr.owner_id = $1
		ORDER BY cr.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.BrandID, &c.BrandName, &c.Model, &c.Year,
			&c.LicensePlate, &c.VIN, &c.CreatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachObligations(ctx, cars)
}

func (r *PostgresCarRepository) attachObligations(ctx context.Context, cars []models.Car) ([]models.Car, error) {
	if len(cars) == 0 {
		return cars, nil
	}

	ids := make([]string, 0, len(cars))
	for _, c := range cars {
		ids = append(ids, c.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT obligation_id, car_id, obligation_type, expires_at, COALESCE(note, '')
		FROM car_obligations WHERE car_id = ANY($1)
		ORDER BY expires_at`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCar := make(map[string][]models.CarObligation)
	for rows.Next() {
		var o models.CarObligation
		if err := rows.Scan(&o.ID, &o.CarID, &o.Type, &o.ExpiresAt, &o.Note); err != nil {
			return nil, err
		}
		byCar[o.CarID] = append(byCar[o.CarID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cars {
		cars[i].Obligations = byCar[cars[i].ID]
	}
	return cars, nil
}

// GetCarByID returns one car without obligations.
func (r *PostgresCarRepository) GetCarByID(ctx context.Context, carID string) (*models.Car, error) {
	var c models.Car
	err := r.DB.QueryRow(ctx, `
		SELECT cr.car_id, cr.owner_id, cr.brand_id, b.brand_name, cr.model, cr.year,
		       cr.license_plate, COALESCE(cr.vin, ''), cr.created_at
		FROM cars cr
		JOIN car_brands b ON b.brand_id = cr.brand_id
		WHERE cr.car_id = $1`, carID).Scan(
		&c.ID, &c.OwnerID, &c.BrandID, &c.BrandName, &c.Model, &c.Year,
		&c.LicensePlate, &c.VIN, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCar inserts a new car for the owner.
func (r *PostgresCarRepository) CreateCar(ctx context.Context, ownerID string, req models.CarRequest) (*models.Car, error) {
	newCar := models.Car{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		BrandID:      req.BrandID,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		VIN:          req.VIN,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO cars (car_id, owner_id, brand_id, model, year, license_plate, vin, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		newCar.ID, newCar.OwnerID, newCar.BrandID, newCar.Model, newCar.Year,
		newCar.LicensePlate, newCar.VIN, newCar.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert car: %w", err)
	}
	return &newCar, nil
}

// UpdateCar replaces the car's editable fields and returns the fresh row.
func (r *PostgresCarRepository) UpdateCar(ctx context.Context, carID string, req models.CarRequest) (*models.Car, error) {
	_, err := r.DB.Exec(ctx, `
		UPDATE cars SET brand_id = $1, model = $2, year = $3, license_plate = $4, vin = $5
		WHERE car_id = $6`,
		req.BrandID, req.Model, req.Year, req.LicensePlate, req.VIN, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return r.GetCarByID(ctx, carID)
}

// CreateObligation inserts an obligation for a car.
func (r *PostgresCarRepository) CreateObligation(ctx context.Context, carID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	newObligation := models.CarObligation{
		ID:        uuid.New().String(),
		CarID:     carID,
		Type:      req.Type,
		ExpiresAt: req.ExpiresAt,
		Note:      req.Note,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO car_obligations (obligation_id, car_id, obligation_type, expires_at, note)
       VALUES ($1, $2, $3, $4, $5)`,
		newObligation.ID, newObligation.CarID, newObligation.Type, newObligation.ExpiresAt, newObligation.Note)
	if err != nil {
		return nil, fmt.Errorf("failed to insert obligation: %w", err)
	}
	return &newObligation, nil
}

// GetObligationByID returns one obligation.
func (r *PostgresCarRepository) GetObligationByID(ctx context.Context, obligationID string) (*models.CarObligation, error) {
	var o models.CarObligation
	err := r.DB.QueryRow(ctx, `
		SELECT obligation_id, car_id, obligation_type, expires_at, COALESCE(note, '')
		FROM car_obligations WHERE obligation_id = $1`, obligationID).Scan(
		&o.ID, &o.CarID, &o.Type, &o.ExpiresAt, &o.Note)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateObligation replaces an obligation's fields and returns the fresh row.
func (r *PostgresCarRepository) UpdateObligation(ctx context.Context, obligationID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	_, err := r.DB.Exec(ctx, `
		UPDATE car_obligations SET obligation_type = $1, expires_at = $2, note = $3
		WHERE obligation_id = $4`,
		req.Type, req.ExpiresAt, req.Note, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to update obligation: %w", err)
	}
	return r.GetObligationByID(ctx, obligationID)
}

// DeleteObligation removes an obligation belonging to the car.
func (r *PostgresCarRepository) DeleteObligation(ctx context.Context, carID, obligationID string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM car_obligations WHERE obligation_id = $1 AND car_id = $2`,
		obligationID, carID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
