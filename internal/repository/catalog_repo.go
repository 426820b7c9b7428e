package repository

import (
	"context"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// CatalogRepository - interface for brands, services, categories and tags.
type CatalogRepository interface {
	GetBrands(ctx context.Context) ([]models.CarBrand, error)
	GetServices(ctx context.Context) ([]models.Service, error)
	GetServicesByCategory(ctx context.Context, categoryName string) ([]models.Service, error)
	CategoryExists(ctx context.Context, categoryName string) (bool, error)
	BrandExists(ctx context.Context, brandID string) (bool, error)
	CountServicesByIDs(ctx context.Context, serviceIDs []string) (int, error)
	GetAppLinks(ctx context.Context) ([]models.AppLink, error)
}

// PostgresCatalogRepository - CatalogRepository implementation for the database.
type PostgresCatalogRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository.
func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// GetBrands returns all car brands ordered by name.
func (r *PostgresCatalogRepository) GetBrands(ctx context.Context) ([]models.CarBrand, error) {
	rows, err := r.DB.Query(ctx, `SELECT brand_id, brand_name, brand_photo FROM car_brands ORDER BY brand_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []models.CarBrand
	for rows.Next() {
		var b models.CarBrand
		if err := rows.Scan(&b.ID, &b.BrandName, &b.BrandPhoto); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *PostgresCatalogRepository) queryServices(ctx context.Context, where string, args ...interface{}) ([]models.Service, error) {
	query := `SELECT s.service_id, s.service_name, s.description, s.service_photo, s.category_id, c.category_name
	          FROM services s
	          JOIN service_categories c ON c.category_id = s.category_id ` + where + ` ORDER BY s.service_name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var description *string
		if err := rows.Scan(&s.ID, &s.ServiceName, &description, &s.ServicePhoto, &s.CategoryID, &s.CategoryName); err != nil {
			return nil, err
		}
		if description != nil {
			s.Description = *description
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachTags(ctx, services)
}

// attachTags loads tags for the given services in one query.
func (r *PostgresCatalogRepository) attachTags(ctx context.Context, services []models.Service) ([]models.Service, error) {
	if len(services) == 0 {
		return services, nil
	}

	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT st.service_id, t.tag_id, t.tag_name
		FROM service_tags st
		JOIN tags t ON t.tag_id = st.tag_id
		WHERE st.service_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagsByService := make(map[string][]models.Tag)
	for rows.Next() {
		var serviceID string
		var tag models.Tag
		if err := rows.Scan(&serviceID, &tag.ID, &tag.TagName); err != nil {
			return nil, err
		}
		tagsByService[serviceID] = append(tagsByService[serviceID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range services {
		services[i].Tags = tagsByService[services[i].ID]
	}
	return services, nil
}

// GetServices returns all services with their categories and tags.
func (r *PostgresCatalogRepository) GetServices(ctx context.Context) ([]models.Service, error) {
	return r.queryServices(ctx, "")
}

// GetServicesByCategory returns the services of one category.
func (r *PostgresCatalogRepository) GetServicesByCategory(ctx context.Context, categoryName string) ([]models.Service, error) {
	return r.queryServices(ctx, "WHERE c.category_name = $1", categoryName)
}

// CategoryExists checks whether a service category exists by name.
func (r *PostgresCatalogRepository) CategoryExists(ctx context.Context, categoryName string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM service_categories WHERE category_name = $1)`, categoryName).Scan(&exists)
	return exists, err
}

// BrandExists checks whether a car brand exists.
func (r *PostgresCatalogRepository) BrandExists(ctx context.Context, brandID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM car_brands WHERE brand_id = $1)`, brandID).Scan(&exists)
	return exists, err
}

// CountServicesByIDs counts how many of the given ids exist.
func (r *PostgresCatalogRepository) CountServicesByIDs(ctx context.Context, serviceIDs []string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE service_id = ANY($1)`, pq.Array(serviceIDs)).Scan(&count)
	return count, err
}

// GetAppLinks returns the mobile store links.
func (r *PostgresCatalogRepository) GetAppLinks(ctx context.Context) ([]models.AppLink, error) {
	rows, err := r.DB.Query(ctx, `SELECT platform, url FROM app_links ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.AppLink
	for rows.Next() {
		var l models.AppLink
		if err := rows.Scan(&l.Platform, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
