package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// OfferingRepository - interface for supplier_brand_services rows.
type OfferingRepository interface {
	CreateOffering(ctx context.Context, supplierID string, req models.OfferingRequest) (*models.Offering, error)
	GetSupplierOfferings(ctx context.Context, supplierID string) ([]models.Offering, error)
	GetServiceIDsForSupplierBrand(ctx context.Context, supplierID, brandID string) ([]string, error)
	SearchOfferings(ctx context.Context, filter models.SearchFilter) ([]models.OfferingSearchRow, error)
}

// PostgresOfferingRepository - OfferingRepository implementation for the database.
type PostgresOfferingRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOfferingRepository creates a new PostgresOfferingRepository.
func NewPostgresOfferingRepository(db *pgxpool.Pool) *PostgresOfferingRepository {
	return &PostgresOfferingRepository{DB: db}
}

// CreateOffering inserts one offering row and its service links.
func (r *PostgresOfferingRepository) CreateOffering(ctx context.Context, supplierID string, req models.OfferingRequest) (*models.Offering, error) {
	newOffering := models.Offering{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		BrandID:    req.BrandID,
		ServiceIDs: req.ServiceIDs,
		City:       req.City,
		Sector:     req.Sector,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		PhotoURL:   req.PhotoURL,
		Price:      req.Price,
		Active:     true,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO supplier_brand_services (id, supplier_id, brand_id, city, sector, latitude, longitude, photo_url, price, active)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		newOffering.ID,
		newOffering.SupplierID,
		newOffering.BrandID,
		newOffering.City,
		newOffering.Sector,
		newOffering.Latitude,
		newOffering.Longitude,
		newOffering.PhotoURL,
		newOffering.Price,
		newOffering.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to insert offering: %w", err)
	}

	for _, serviceID := range req.ServiceIDs {
		_, err = r.DB.Exec(ctx, `
           INSERT INTO supplier_brand_service_items (offering_id, service_id) VALUES ($1, $2)`,
			newOffering.ID, serviceID)
		if err != nil {
			return nil, fmt.Errorf("failed to link offering service: %w", err)
		}
	}
	return &newOffering, nil
}

// GetSupplierOfferings returns all active offerings of one supplier.
func (r *PostgresOfferingRepository) GetSupplierOfferings(ctx context.Context, supplierID string) ([]models.Offering, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.supplier_id, o.brand_id, b.brand_name, o.city, o.sector, o.latitude, o.longitude, o.photo_url, o.price, o.active
		FROM supplier_brand_services o
		JOIN car_brands b ON b.brand_id = o.brand_id
		WHERE o.supplier_id = $1 AND o.active = TRUE
		ORDER BY b.brand_name`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []models.Offering
	for rows.Next() {
		var o models.Offering
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.BrandID, &o.BrandName, &o.City, &o.Sector,
			&o.Latitude, &o.Longitude, &o.PhotoURL, &o.Price, &o.Active); err != nil {
			return nil, err
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range offerings {
		serviceIDs, err := r.offeringServiceIDs(ctx, offerings[i].ID)
		if err != nil {
			return nil, err
		}
		offerings[i].ServiceIDs = serviceIDs
	}
	return offerings, nil
}

func (r *PostgresOfferingRepository) offeringServiceIDs(ctx context.Context, offeringID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT service_id FROM supplier_brand_service_items WHERE offering_id = $1`, offeringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetServiceIDsForSupplierBrand returns every service already covered by
// active offerings of the (supplier, brand) pair. Used for the overlap check.
func (r *PostgresOfferingRepository) GetServiceIDsForSupplierBrand(ctx context.Context, supplierID, brandID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.service_id
		FROM supplier_brand_service_items i
		JOIN supplier_brand_services o ON o.id = i.offering_id
		WHERE o.supplier_id = $1 AND o.brand_id = $2 AND o.active = TRUE`, supplierID, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SearchOfferings returns active offerings matching the category and the
// optional brand/tag filters, joined with supplier profile and review
// aggregates. Ranking happens in the service layer.
func (r *PostgresOfferingRepository) SearchOfferings(ctx context.Context, filter models.SearchFilter) ([]models.OfferingSearchRow, error) {
	query := `
		SELECT DISTINCT o.id, u.user_id, u.full_name, u.profile_photo,
		       COALESCE(u.city, ''), COALESCE(u.sector, ''), u.latitude, u.longitude,
		       COALESCE(rv.score, 0), COALESCE(rv.cnt, 0)
		FROM supplier_brand_services o
		JOIN users u ON u.user_id = o.supplier_id
		JOIN supplier_brand_service_items i ON i.offering_id = o.id
		JOIN services s ON s.service_id = i.service_id
		JOIN service_categories c ON c.category_id = s.category_id
		JOIN car_brands b ON b.brand_id = o.brand_id
		LEFT JOIN (
			SELECT supplier_id, AVG(rating)::float8 AS score, COUNT(*) AS cnt
			FROM reviews GROUP BY supplier_id
		) rv ON rv.supplier_id = o.supplier_id`

	filters := []string{
		"o.active = TRUE",
		"u.account_status = 'active'",
		"u.approval_status = 'approved'",
	}
	var args []interface{}
	argIndex := 1

	filters = append(filters, fmt.Sprintf("c.category_name = $%d", argIndex))
	args = append(args, filter.Category)
	argIndex++

	if filter.Brand != "" {
		filters = append(filters, fmt.Sprintf("b.brand_name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Brand+"%")
		argIndex++
	}

	if len(filter.Tags) > 0 {
		filters = append(filters, fmt.Sprintf(`s.service_id IN (
			SELECT st.service_id FROM service_tags st
			JOIN tags t ON t.tag_id = st.tag_id
			WHERE t.tag_name = ANY($%d))`, argIndex))
		args = append(args, pq.Array(filter.Tags))
		argIndex++
	}

	query += " WHERE " + strings.Join(filters, " AND ")

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.OfferingSearchRow
	for rows.Next() {
		var row models.OfferingSearchRow
		if err := rows.Scan(&row.OfferingID, &row.SupplierID, &row.FullName, &row.ProfilePhoto,
			&row.City, &row.Sector, &row.Latitude, &row.Longitude,
			&row.ReviewScore, &row.ReviewCount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
