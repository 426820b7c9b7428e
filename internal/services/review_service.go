package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/utils"

	"github.com/jackc/pgx/v5"
)

// ReviewService handles client ratings of suppliers.
type ReviewService struct {
	Repo  repository.ReviewRepository
	Users repository.UserRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo repository.ReviewRepository, users repository.UserRepository) *ReviewService {
	return &ReviewService{Repo: repo, Users: users}
}

// GetReviews lists reviews for a supplier, newest first.
func (s *ReviewService) GetReviews(ctx context.Context, supplierID, limitStr, offsetStr string) ([]models.Review, error) {
	if _, err := s.requireSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	reviews, err := s.Repo.GetReviews(ctx, supplierID, limit, offset)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return reviews, nil
}

// UpsertReview creates or replaces the caller's review of a supplier.
// A client keeps a single review per supplier.
func (s *ReviewService) UpsertReview(ctx context.Context, clientID string, clientType models.UserType,
	supplierID string, req models.ReviewRequest) (*models.Review, error) {
	if clientType != models.ClientUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only clients can leave reviews")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if _, err := s.requireSupplier(ctx, supplierID); err != nil {
		return nil, err
	}

	review, err := s.Repo.UpsertReview(ctx, clientID, supplierID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return review, nil
}

func (s *ReviewService) requireSupplier(ctx context.Context, supplierID string) (*models.User, error) {
	if supplierID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required field: supplier_id")
	}
	user, err := s.Users.GetUserByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "supplier not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if user.UserType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusNotFound, "supplier not found")
	}
	return user, nil
}
