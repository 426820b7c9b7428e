package models

import "time"

// ObligationType classifies a recurring legal or maintenance obligation.
type ObligationType string

const (
	ITPObligation       ObligationType = "itp"
	RCAObligation       ObligationType = "rca"
	RovinietaObligation ObligationType = "rovinieta"
	CascoObligation     ObligationType = "casco"
	ServiceObligation   ObligationType = "service"
)

// Car represents a client's vehicle.
type Car struct {
	ID           string          `json:"car_id"`
	OwnerID      string          `json:"owner_id"`
	BrandID      string          `json:"brand_id"`
	BrandName    string          `json:"brand_name,omitempty"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	LicensePlate string          `json:"license_plate"`
	VIN          string          `json:"vin,omitempty"`
	Obligations  []CarObligation `json:"obligations,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CarObligation tracks an expiry date attached to a car (ITP, RCA, ...).
type CarObligation struct {
	ID        string         `json:"obligation_id"`
	CarID     string         `json:"car_id"`
	Type      ObligationType `json:"obligation_type"`
	ExpiresAt time.Time      `json:"expires_at"`
	Note      string         `json:"note,omitempty"`
}

// CarRequest is the create/update body for a car.
type CarRequest struct {
	BrandID      string `json:"brand_id"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
	VIN          string `json:"vin"`
}

// CarObligationRequest is the create/update body for an obligation.
type CarObligationRequest struct {
	Type      ObligationType `json:"obligation_type"`
	ExpiresAt time.Time      `json:"expires_at"`
	Note      string         `json:"note"`
}
