package services

import (
	"context"
	"net/http"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/repository"
)

// CatalogService serves the read-only reference data: car brands,
// services grouped by category and the public store links.
type CatalogService struct {
	Repo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

func (s *CatalogService) GetBrands(ctx context.Context) ([]models.CarBrand, error) {
	brands, err := s.Repo.GetBrands(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return brands, nil
}

func (s *CatalogService) GetServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.Repo.GetServices(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return services, nil
}

func (s *CatalogService) GetServicesByCategory(ctx context.Context, categoryName string) ([]models.Service, error) {
	if categoryName == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: category")
	}
	exists, err := s.Repo.CategoryExists(ctx, categoryName)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "unsupported category: "+categoryName)
	}
	services, err := s.Repo.GetServicesByCategory(ctx, categoryName)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return services, nil
}

func (s *CatalogService) GetAppLinks(ctx context.Context) ([]models.AppLink, error) {
	links, err := s.Repo.GetAppLinks(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return links, nil
}
