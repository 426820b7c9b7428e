package models

// Offering represents one supplier_brand_services row: a supplier offering a
// set of services for one car brand at one location.
type Offering struct {
	ID         string   `json:"id"`
	SupplierID string   `json:"supplier_id"`
	BrandID    string   `json:"brand_id"`
	BrandName  string   `json:"brand_name,omitempty"`
	ServiceIDs []string `json:"service_ids"`
	City       string   `json:"city,omitempty"`
	Sector     string   `json:"sector,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	PhotoURL   string   `json:"photo_url"`
	Price      *float64 `json:"price,omitempty"`
	Active     bool     `json:"active"`
}

// OfferingRequest is one entry of the bulk-create body.
type OfferingRequest struct {
	BrandID    string   `json:"brand_id"`
	ServiceIDs []string `json:"service_ids"`
	City       string   `json:"city"`
	Sector     string   `json:"sector"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	PhotoURL   string   `json:"photo_url"`
	Price      *float64 `json:"price"`
}

// CreateOfferingsRequest is the bulk-create body for supplier offerings.
type CreateOfferingsRequest struct {
	Offerings []OfferingRequest `json:"offerings"`
}

// SupplierSummary is one ranked row of the discovery endpoint and the body
// of the profile-summary endpoint.
type SupplierSummary struct {
	SupplierID   string   `json:"supplier_id"`
	FullName     string   `json:"full_name"`
	ProfilePhoto string   `json:"profile_photo"`
	City         string   `json:"city,omitempty"`
	Sector       string   `json:"sector,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ReviewScore  float64  `json:"review_score"`
	ReviewCount  int      `json:"review_count"`
	IsOpen       bool     `json:"is_open"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}

// SupplierProfile is the full supplier page: summary plus offerings and hours.
type SupplierProfile struct {
	SupplierSummary
	BusinessAddress string          `json:"business_address,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	Offerings       []Offering      `json:"offerings"`
	BusinessHours   []BusinessHours `json:"business_hours"`
}

// OfferingSearchRow is one matching offering joined with its supplier
// profile and review aggregates, before ranking.
type OfferingSearchRow struct {
	OfferingID   string
	SupplierID   string
	FullName     string
	ProfilePhoto string
	City         string
	Sector       string
	Latitude     *float64
	Longitude    *float64
	ReviewScore  float64
	ReviewCount  int
}

// SearchFilter collects the discovery query parameters.
type SearchFilter struct {
	Category  string
	Brand     string
	Tags      []string
	Latitude  *float64
	Longitude *float64
}
