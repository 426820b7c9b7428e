package models

// CarBrand represents a car manufacturer known to the platform.
type CarBrand struct {
	ID         string `json:"brand_id"`
	BrandName  string `json:"brand_name"`
	BrandPhoto string `json:"brand_photo"`
}

// ServiceCategory groups services, e.g. mecanic_auto or vulcanizare.
type ServiceCategory struct {
	ID           string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Tag is a free-form label attached to services.
type Tag struct {
	ID      string `json:"tag_id"`
	TagName string `json:"tag_name"`
}

// Service represents one bookable automotive service.
type Service struct {
	ID           string `json:"service_id"`
	ServiceName  string `json:"service_name"`
	Description  string `json:"description,omitempty"`
	ServicePhoto string `json:"service_photo"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Tags         []Tag  `json:"tags,omitempty"`
}

// OfferingOptions feeds the supplier offering form: what can be selected.
type OfferingOptions struct {
	Brands   []CarBrand `json:"brands"`
	Services []Service  `json:"services"`
	Cities   []string   `json:"cities"`
}
