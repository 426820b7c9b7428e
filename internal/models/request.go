package models

import "time"

// RequestStatus is the state of a service request.
type RequestStatus string

const (
	PendingRequest   RequestStatus = "pending"
	AcceptedRequest  RequestStatus = "accepted"
	RejectedRequest  RequestStatus = "rejected"
	CompletedRequest RequestStatus = "completed"
	ExpiredRequest   RequestStatus = "expired"
)

// Request represents a client's service solicitation directed at a supplier.
type Request struct {
	ID           string        `json:"request_id"`
	ClientID     string        `json:"client_id"`
	SupplierID   string        `json:"supplier_id"`
	ClientName   string        `json:"client_name,omitempty"`
	SupplierName string        `json:"supplier_name,omitempty"`
	Status       RequestStatus `json:"status"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	PhoneNumber  string        `json:"phone_number"`
	Address      string        `json:"address"`
	Reason       string        `json:"reason"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CreateRequestRequest is the body for creating a service request.
type CreateRequestRequest struct {
	SupplierID  string  `json:"supplier_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PhoneNumber string  `json:"phone_number"`
	Address     string  `json:"address"`
	Reason      string  `json:"reason"`
}

// UpdateRequestStatusRequest is the body of the status-update endpoint.
type UpdateRequestStatusRequest struct {
	RequestID string        `json:"request_id"`
	Status    RequestStatus `json:"status"`
}

// UpdateRequestStatusResponse echoes the status after an update or no-op.
type UpdateRequestStatusResponse struct {
	Success bool          `json:"success"`
	Status  RequestStatus `json:"status"`
}
