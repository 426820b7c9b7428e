package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestServiceForTest(users *fakeUserRepo, requests *fakeRequestRepo) (*RequestService, *fakeNotificationRepo, *fakePusher) {
	notifications := newFakeNotificationRepo()
	pusher := &fakePusher{}
	svc := NewRequestService(requests, users, notifications, pusher, logger.New("test", "error"))
	return svc, notifications, pusher
}

func testParticipants() (*models.User, *models.User) {
	client := &models.User{ID: "client-1", FullName: "Ion Popescu", UserType: models.ClientUser}
	supplier := &models.User{ID: "supplier-1", FullName: "Service Auto SRL", UserType: models.SupplierUser}
	return client, supplier
}

func TestCreateRequest(t *testing.T) {
	client, supplier := testParticipants()

	t.Run("client creates pending request and supplier is notified", func(t *testing.T) {
		svc, notifications, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo())

		created, err := svc.CreateRequest(context.Background(), client.ID, client.UserType, models.CreateRequestRequest{
			SupplierID:  supplier.ID,
			PhoneNumber: "+40700000000",
			Reason:      "pana de cauciuc",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PendingRequest, created.Status)
		assert.Equal(t, client.ID, created.ClientID)
		assert.Len(t, notifications.receivedBy(supplier.ID), 1)
	})

	t.Run("supplier cannot create requests", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo())

		_, err := svc.CreateRequest(context.Background(), supplier.ID, supplier.UserType, models.CreateRequestRequest{
			SupplierID:  supplier.ID,
			PhoneNumber: "+40700000000",
			Reason:      "test",
		})
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo())

		_, err := svc.CreateRequest(context.Background(), client.ID, client.UserType, models.CreateRequestRequest{
			SupplierID: supplier.ID,
		})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo())

		_, err := svc.CreateRequest(context.Background(), client.ID, client.UserType, models.CreateRequestRequest{
			SupplierID:  "nobody",
			PhoneNumber: "+40700000000",
			Reason:      "test",
		})
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("target must be a supplier", func(t *testing.T) {
		other := &models.User{ID: "client-2", UserType: models.ClientUser}
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier, other), newFakeRequestRepo())

		_, err := svc.CreateRequest(context.Background(), client.ID, client.UserType, models.CreateRequestRequest{
			SupplierID:  other.ID,
			PhoneNumber: "+40700000000",
			Reason:      "test",
		})
		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestUpdateRequestStatusTransitions(t *testing.T) {
	client, supplier := testParticipants()

	tests := []struct {
		from    models.RequestStatus
		to      models.RequestStatus
		allowed bool
	}{
		{models.PendingRequest, models.AcceptedRequest, true},
		{models.PendingRequest, models.RejectedRequest, true},
		{models.PendingRequest, models.CompletedRequest, false},
		{models.PendingRequest, models.ExpiredRequest, false},
		{models.AcceptedRequest, models.CompletedRequest, true},
		{models.AcceptedRequest, models.ExpiredRequest, true},
		{models.AcceptedRequest, models.PendingRequest, false},
		{models.AcceptedRequest, models.RejectedRequest, false},
		{models.RejectedRequest, models.PendingRequest, false},
		{models.RejectedRequest, models.AcceptedRequest, false},
		{models.CompletedRequest, models.AcceptedRequest, false},
		{models.CompletedRequest, models.ExpiredRequest, false},
		{models.ExpiredRequest, models.AcceptedRequest, false},
		{models.ExpiredRequest, models.CompletedRequest, false},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s to %s", tt.from, tt.to)
		t.Run(name, func(t *testing.T) {
			request := &models.Request{ID: "req-1", ClientID: client.ID, SupplierID: supplier.ID, Status: tt.from}
			svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo(request))

			resp, err := svc.UpdateRequestStatus(context.Background(), supplier.ID, models.UpdateRequestStatusRequest{
				RequestID: request.ID,
				Status:    tt.to,
			})
			if tt.allowed {
				require.NoError(t, err)
				assert.True(t, resp.Success)
				assert.Equal(t, tt.to, resp.Status)
			} else {
				requireStatus(t, err, http.StatusBadRequest)
				assert.EqualError(t, err, fmt.Sprintf("Invalid transition: %s -> %s.", tt.from, tt.to))
				assert.Equal(t, tt.from, request.Status)
			}
		})
	}
}

func TestUpdateRequestStatus(t *testing.T) {
	client, supplier := testParticipants()

	t.Run("same status is a no-op even in a terminal state", func(t *testing.T) {
		request := &models.Request{ID: "req-1", ClientID: client.ID, SupplierID: supplier.ID, Status: models.CompletedRequest}
		svc, notifications, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo(request))

		resp, err := svc.UpdateRequestStatus(context.Background(), client.ID, models.UpdateRequestStatusRequest{
			RequestID: request.ID,
			Status:    models.CompletedRequest,
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, models.CompletedRequest, resp.Status)
		assert.Empty(t, notifications.notifications)
	})

	t.Run("non-participant gets 403 before any state check", func(t *testing.T) {
		request := &models.Request{ID: "req-1", ClientID: client.ID, SupplierID: supplier.ID, Status: models.CompletedRequest}
		stranger := &models.User{ID: "stranger", UserType: models.ClientUser}
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier, stranger), newFakeRequestRepo(request))

		// Same-status update in a terminal state would be a no-op for a
		// participant, a stranger must still be rejected.
		_, err := svc.UpdateRequestStatus(context.Background(), stranger.ID, models.UpdateRequestStatusRequest{
			RequestID: request.ID,
			Status:    models.CompletedRequest,
		})
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("unknown status", func(t *testing.T) {
		request := &models.Request{ID: "req-1", ClientID: client.ID, SupplierID: supplier.ID, Status: models.PendingRequest}
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo(request))

		_, err := svc.UpdateRequestStatus(context.Background(), supplier.ID, models.UpdateRequestStatusRequest{
			RequestID: request.ID,
			Status:    "cancelled",
		})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo())

		_, err := svc.UpdateRequestStatus(context.Background(), supplier.ID, models.UpdateRequestStatusRequest{
			RequestID: "missing",
			Status:    models.AcceptedRequest,
		})
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("successful transition notifies both parties and pushes to client", func(t *testing.T) {
		request := &models.Request{ID: "req-1", ClientID: client.ID, SupplierID: supplier.ID, Status: models.PendingRequest}
		svc, notifications, pusher := newRequestServiceForTest(newFakeUserRepo(client, supplier), newFakeRequestRepo(request))
		require.NoError(t, notifications.UpsertDevice(context.Background(), client.ID, "player-1"))

		_, err := svc.UpdateRequestStatus(context.Background(), supplier.ID, models.UpdateRequestStatusRequest{
			RequestID: request.ID,
			Status:    models.AcceptedRequest,
		})
		require.NoError(t, err)

		assert.Len(t, notifications.receivedBy(client.ID), 1)
		assert.Len(t, notifications.receivedBy(supplier.ID), 1)
		require.Len(t, pusher.sent, 1)
		assert.Equal(t, []string{"player-1"}, pusher.sent[0].playerIDs)
		assert.Contains(t, pusher.sent[0].message, "accepted")
	})
}

func TestPendingCount(t *testing.T) {
	client, supplier := testParticipants()
	requests := newFakeRequestRepo(
		&models.Request{ID: "r1", ClientID: client.ID, SupplierID: supplier.ID, Status: models.PendingRequest},
		&models.Request{ID: "r2", ClientID: client.ID, SupplierID: supplier.ID, Status: models.PendingRequest},
		&models.Request{ID: "r3", ClientID: client.ID, SupplierID: supplier.ID, Status: models.AcceptedRequest},
	)
	svc, _, _ := newRequestServiceForTest(newFakeUserRepo(client, supplier), requests)

	count, err := svc.PendingCount(context.Background(), supplier.ID, supplier.UserType)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.PendingCount(context.Background(), client.ID, client.UserType)
	requireStatus(t, err, http.StatusForbidden)
}

func requireStatus(t *testing.T, err error, statusCode int) {
	t.Helper()
	require.Error(t, err)
	errorResponse, ok := err.(*models.ErrorResponse)
	require.True(t, ok, "expected *models.ErrorResponse, got %T", err)
	assert.Equal(t, statusCode, errorResponse.StatusCode)
}
