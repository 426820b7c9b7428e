package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/repository"

	"github.com/jackc/pgx/v5"
)

var knownObligationTypes = []models.ObligationType{
	models.ITPObligation,
	models.RCAObligation,
	models.RovinietaObligation,
	models.CascoObligation,
	models.ServiceObligation,
}

// CarService manages client vehicles and their recurring obligations.
type CarService struct {
	Repo    repository.CarRepository
	Catalog repository.CatalogRepository
}

// NewCarService creates a new CarService.
func NewCarService(repo repository.CarRepository, catalog repository.CatalogRepository) *CarService {
	return &CarService{Repo: repo, Catalog: catalog}
}

// GetUserCars lists the actor's cars with obligations attached.
func (s *CarService) GetUserCars(ctx context.Context, ownerID string) ([]models.Car, error) {
	cars, err := s.Repo.GetUserCars(ctx, ownerID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return cars, nil
}

// CreateCar registers a vehicle for the actor.
func (s *CarService) CreateCar(ctx context.Context, ownerID string, actorType models.UserType, req models.CarRequest) (*models.Car, error) {
	if actorType != models.ClientUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only clients can register cars")
	}
	if err := s.validateCarRequest(ctx, req); err != nil {
		return nil, err
	}

	car, err := s.Repo.CreateCar(ctx, ownerID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return car, nil
}

// UpdateCar replaces a car's details. Only the owner can edit.
func (s *CarService) UpdateCar(ctx context.Context, ownerID, carID string, req models.CarRequest) (*models.Car, error) {
	if _, err := s.requireOwnedCar(ctx, ownerID, carID); err != nil {
		return nil, err
	}
	if err := s.validateCarRequest(ctx, req); err != nil {
		return nil, err
	}

	car, err := s.Repo.UpdateCar(ctx, carID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return car, nil
}

// CreateObligation attaches an expiry-tracked obligation to a car.
func (s *CarService) CreateObligation(ctx context.Context, ownerID, carID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	if _, err := s.requireOwnedCar(ctx, ownerID, carID); err != nil {
		return nil, err
	}
	if err := validateObligationRequest(req); err != nil {
		return nil, err
	}

	obligation, err := s.Repo.CreateObligation(ctx, carID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return obligation, nil
}

// UpdateObligation replaces an obligation's type, expiry and note.
func (s *CarService) UpdateObligation(ctx context.Context, ownerID, carID, obligationID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	if err := s.requireOwnedObligation(ctx, ownerID, carID, obligationID); err != nil {
		return nil, err
	}
	if err := validateObligationRequest(req); err != nil {
		return nil, err
	}

	obligation, err := s.Repo.UpdateObligation(ctx, obligationID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return obligation, nil
}

// DeleteObligation removes one obligation from the actor's car.
func (s *CarService) DeleteObligation(ctx context.Context, ownerID, carID, obligationID string) error {
	if err := s.requireOwnedObligation(ctx, ownerID, carID, obligationID); err != nil {
		return err
	}
	deleted, err := s.Repo.DeleteObligation(ctx, carID, obligationID)
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !deleted {
		return models.NewErrorResponse(http.StatusNotFound, "obligation not found")
	}
	return nil
}

func (s *CarService) validateCarRequest(ctx context.Context, req models.CarRequest) error {
	if req.BrandID == "" || req.Model == "" || req.LicensePlate == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required fields: brand_id, model or license_plate")
	}
	currentYear := time.Now().UTC().Year()
	if req.Year < 1950 || req.Year > currentYear+1 {
		return models.NewErrorResponse(http.StatusBadRequest, "invalid year")
	}
	exists, err := s.Catalog.BrandExists(ctx, req.BrandID)
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return models.NewErrorResponse(http.StatusBadRequest, "unknown brand: "+req.BrandID)
	}
	return nil
}

func (s *CarService) requireOwnedCar(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	car, err := s.Repo.GetCarByID(ctx, carID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "car not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if car.OwnerID != ownerID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you do not own this car")
	}
	return car, nil
}

func (s *CarService) requireOwnedObligation(ctx context.Context, ownerID, carID, obligationID string) error {
	if _, err := s.requireOwnedCar(ctx, ownerID, carID); err != nil {
		return err
	}
	obligation, err := s.Repo.GetObligationByID(ctx, obligationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewErrorResponse(http.StatusNotFound, "obligation not found")
		}
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if obligation.CarID != carID {
		return models.NewErrorResponse(http.StatusNotFound, "obligation not found")
	}
	return nil
}

func validateObligationRequest(req models.CarObligationRequest) error {
	if req.Type == "" || req.ExpiresAt.IsZero() {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required fields: obligation_type or expires_at")
	}
	for _, known := range knownObligationTypes {
		if req.Type == known {
			return nil
		}
	}
	return models.NewErrorResponse(http.StatusBadRequest, "unknown obligation type: "+string(req.Type))
}
