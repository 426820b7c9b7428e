package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/notify"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// allowedStatusTransitions gates the request workflow. Missing keys are
// terminal states.
var allowedStatusTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.PendingRequest:   {models.AcceptedRequest, models.RejectedRequest},
	models.AcceptedRequest:  {models.CompletedRequest, models.ExpiredRequest},
	models.RejectedRequest:  {},
	models.CompletedRequest: {},
	models.ExpiredRequest:   {},
}

func isKnownStatus(status models.RequestStatus) bool {
	_, ok := allowedStatusTransitions[status]
	return ok
}

type RequestService struct {
	Repo          repository.RequestRepository
	Users         repository.UserRepository
	Notifications repository.NotificationRepository
	Pusher        notify.Pusher
	Log           logger.ILogger
}

// NewRequestService creates a new RequestService.
func NewRequestService(repo repository.RequestRepository, users repository.UserRepository,
	notifications repository.NotificationRepository, pusher notify.Pusher, log logger.ILogger) *RequestService {
	return &RequestService{
		Repo:          repo,
		Users:         users,
		Notifications: notifications,
		Pusher:        pusher,
		Log:           log,
	}
}

// CreateRequest creates a pending service request from a client to a supplier.
func (s *RequestService) CreateRequest(ctx context.Context, actorID string, actorType models.UserType, req models.CreateRequestRequest) (*models.Request, error) {
	if actorType != models.ClientUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only clients can create requests")
	}
	if req.SupplierID == "" || req.PhoneNumber == "" || req.Reason == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: supplier_id, phone_number or reason")
	}

	supplier, err := s.Users.GetUserByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "supplier not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if supplier.UserType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "target user is not a supplier")
	}

	created, err := s.Repo.CreateRequest(ctx, actorID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	s.notifyParty(ctx, actorID, supplier.ID, "Ai primit o cerere nouă de service.")
	return created, nil
}

// UpdateRequestStatus applies one workflow transition to a request.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, actorID string, req models.UpdateRequestStatusRequest) (*models.UpdateRequestStatusResponse, error) {
	if req.RequestID == "" || req.Status == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: request_id or status")
	}
	if !isKnownStatus(req.Status) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown status: %s", req.Status))
	}

	current, err := s.Repo.GetRequestByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	// Authorization comes before any state check.
	if actorID != current.ClientID && actorID != current.SupplierID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not a participant of this request")
	}

	// Same-status updates are a no-op, terminal or not.
	if req.Status == current.Status {
		return &models.UpdateRequestStatusResponse{Success: true, Status: current.Status}, nil
	}

	validTransitions := allowedStatusTransitions[current.Status]
	if !utils.ContainsStatus(validTransitions, req.Status) {
		return nil, models.NewErrorResponse(http.StatusBadRequest,
			fmt.Sprintf("Invalid transition: %s -> %s.", current.Status, req.Status))
	}

	updated, err := s.Repo.UpdateRequestStatus(ctx, req.RequestID, req.Status)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	message := fmt.Sprintf("Statusul cererii tale de service este acum: %s.", updated.Status)
	s.notifyParty(ctx, actorID, updated.ClientID, message)
	if updated.SupplierID != updated.ClientID {
		if _, err := s.Notifications.CreateNotification(ctx, actorID, updated.SupplierID, models.RequestUpdate, message); err != nil {
			s.Log.Warning("failed to store supplier notification", logger.Error(err))
		}
	}

	return &models.UpdateRequestStatusResponse{Success: true, Status: updated.Status}, nil
}

// notifyParty stores a notification row for the receiver and pushes it to
// their devices. Failures never propagate.
func (s *RequestService) notifyParty(ctx context.Context, senderID, receiverID, message string) {
	if _, err := s.Notifications.CreateNotification(ctx, senderID, receiverID, models.RequestUpdate, message); err != nil {
		s.Log.Warning("failed to store notification", logger.Error(err))
	}

	playerIDs, err := s.Notifications.GetActivePlayerIDs(ctx, receiverID)
	if err != nil || len(playerIDs) == 0 {
		return
	}
	if err := s.Pusher.Send(ctx, playerIDs, "FixCars", message, nil); err != nil {
		s.Log.Warning("push delivery failed", logger.Error(err))
	}
}

// GetUserRequests returns the actor's requests, newest first.
func (s *RequestService) GetUserRequests(ctx context.Context, actorID string, actorType models.UserType, limitStr, offsetStr string) ([]models.Request, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	requests, err := s.Repo.GetUserRequests(ctx, actorID, actorType, limit, offset)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return requests, nil
}

// PendingCount counts a supplier's pending requests.
func (s *RequestService) PendingCount(ctx context.Context, actorID string, actorType models.UserType) (int, error) {
	if actorType != models.SupplierUser {
		return 0, models.NewErrorResponse(http.StatusForbidden, "only suppliers have pending requests")
	}
	count, err := s.Repo.CountPendingForSupplier(ctx, actorID)
	if err != nil {
		return 0, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return count, nil
}
