package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestRepository - interface for service request rows.
type RequestRepository interface {
	CreateRequest(ctx context.Context, clientID string, req models.CreateRequestRequest) (*models.Request, error)
	GetRequestByID(ctx context.Context, requestID string) (*models.Request, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status models.RequestStatus) (*models.Request, error)
	GetUserRequests(ctx context.Context, userID string, userType models.UserType, limit, offset int) ([]models.Request, error)
	CountPendingForSupplier(ctx context.Context, supplierID string) (int, error)
}

// PostgresRequestRepository - RequestRepository implementation for the database.
type PostgresRequestRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRequestRepository creates a new PostgresRequestRepository.
func NewPostgresRequestRepository(db *pgxpool.Pool) *PostgresRequestRepository {
	return &PostgresRequestRepository{DB: db}
}

const requestColumns = `r.id, r.client_id, r.supplier_id, c.full_name, s.full_name,
	r.status, r.latitude, r.longitude, r.phone_number, r.address, r.reason, r.created_at`

const requestJoins = `FROM requests r
	JOIN users c ON c.user_id = r.client_id
	JOIN users s ON s.user_id = r.supplier_id`

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID,
		&req.ClientID,
		&req.SupplierID,
		&req.ClientName,
		&req.SupplierName,
		&req.Status,
		&req.Latitude,
		&req.Longitude,
		&req.PhoneNumber,
		&req.Address,
		&req.Reason,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateRequest inserts a new pending request.
func (r *PostgresRequestRepository) CreateRequest(ctx context.Context, clientID string, req models.CreateRequestRequest) (*models.Request, error) {
	newRequest := models.Request{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		SupplierID:  req.SupplierID,
		Status:      models.PendingRequest,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Reason:      req.Reason,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO requests (id, client_id, supplier_id, status, latitude, longitude, phone_number, address, reason, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		newRequest.ID,
		newRequest.ClientID,
		newRequest.SupplierID,
		newRequest.Status,
		newRequest.Latitude,
		newRequest.Longitude,
		newRequest.PhoneNumber,
		newRequest.Address,
		newRequest.Reason,
		newRequest.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert request: %w", err)
	}
	return &newRequest, nil
}

// GetRequestByID returns one request with both party names.
func (r *PostgresRequestRepository) GetRequestByID(ctx context.Context, requestID string) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` ` + requestJoins + ` WHERE r.id = $1`
	return scanRequest(r.DB.QueryRow(ctx, query, requestID))
}

// UpdateRequestStatus persists the new status and returns the fresh row.
// Concurrent updates are last-write-wins.
func (r *PostgresRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status models.RequestStatus) (*models.Request, error) {
	_, err := r.DB.Exec(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, status, requestID)
	if err != nil {
		return nil, err
	}
	return r.GetRequestByID(ctx, requestID)
}

// GetUserRequests returns the requests a user participates in, newest first.
func (r *PostgresRequestRepository) GetUserRequests(ctx context.Context, userID string, userType models.UserType, limit, offset int) ([]models.Request, error) {
	column := "r.client_id"
	if userType == models.SupplierUser {
		column = "r.supplier_id"
	}
	query := fmt.Sprintf(`SELECT %s %s WHERE %s = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		requestColumns, requestJoins, column)

	rows, err := r.DB.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// CountPendingForSupplier counts a supplier's pending requests.
func (r *PostgresRequestRepository) CountPendingForSupplier(ctx context.Context, supplierID string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM requests WHERE supplier_id = $1 AND status = $2`,
		supplierID, models.PendingRequest).Scan(&count)
	return count, err
}
