package models

import "time"

// Review represents a client's rating of a supplier. One row per pair.
type Review struct {
	ID         string    `json:"review_id"`
	ClientID   string    `json:"client_id"`
	SupplierID string    `json:"supplier_id"`
	ClientName string    `json:"client_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewRequest is the upsert body for a review.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
