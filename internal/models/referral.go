package models

import "time"

// SalesRepresentative is a field agent who recruits suppliers.
type SalesRepresentative struct {
	ID           string `json:"rep_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referral_code"`
	Approved     bool   `json:"approved"`
}

// SupplierReferral links a supplier to the representative who recruited them.
// At most one referral per supplier.
type SupplierReferral struct {
	ID               string    `json:"id"`
	SupplierID       string    `json:"supplier_id"`
	RepresentativeID string    `json:"representative_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReferredByRequest is the body of the referedBy endpoint.
type ReferredByRequest struct {
	ReferralCode string `json:"referral_code"`
}

// AppLink is a store link for one mobile platform.
type AppLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}
