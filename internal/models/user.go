package models

import "time"

type (
	UserType       string // Role of an account: client or supplier
	ApprovalStatus string // Moderation status of a supplier account
	AccountStatus  string // Whether an account may log in
)

const (
	ClientUser   UserType = "client"
	SupplierUser UserType = "supplier"

	PendingApproval  ApprovalStatus = "pending"
	ApprovedAccount  ApprovalStatus = "approved"
	RejectedAccount  ApprovalStatus = "rejected"

	ActiveAccount    AccountStatus = "active"
	SuspendedAccount AccountStatus = "suspended"
)

// RomanianCities is the set of cities a profile or offering may reference.
var RomanianCities = []string{
	"Bucharest",
	"Cluj-Napoca",
	"Timișoara",
	"Iași",
	"Constanța",
	"Craiova",
	"Brașov",
	"Galați",
	"Ploiești",
	"Oradea",
}

// IsRomanianCity reports whether city is in the supported list.
func IsRomanianCity(city string) bool {
	for _, c := range RomanianCities {
		if c == city {
			return true
		}
	}
	return false
}

// User represents an account row, either a client or a supplier.
type User struct {
	ID                string         `json:"user_id"`
	FullName          string         `json:"full_name"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	PasswordHash      string         `json:"-"`
	ProfilePhoto      string         `json:"profile_photo"`
	UserType          UserType       `json:"user_type"`
	BusinessAddress   string         `json:"business_address,omitempty"`
	City              string         `json:"city,omitempty"`
	Sector            string         `json:"sector,omitempty"`
	Latitude          *float64       `json:"latitude,omitempty"`
	Longitude         *float64       `json:"longitude,omitempty"`
	Bio               string         `json:"bio,omitempty"`
	AvailabilityDays  []string       `json:"availability_days,omitempty"`
	AvailabilityTimes []string       `json:"availability_times,omitempty"`
	ApprovalStatus    ApprovalStatus `json:"approval_status"`
	AccountStatus     AccountStatus  `json:"account_status"`
	IsVerified        bool           `json:"is_verified"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// SignupRequest is the body of the client and supplier signup endpoints.
type SignupRequest struct {
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Password          string   `json:"password"`
	ProfilePhoto      string   `json:"profile_photo"`
	BusinessAddress   string   `json:"business_address"`
	City              string   `json:"city"`
	Sector            string   `json:"sector"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Bio               string   `json:"bio"`
	AvailabilityDays  []string `json:"availability_days"`
	AvailabilityTimes []string `json:"availability_times"`
}

// UpdateUserRequest carries the mutable profile fields. Nil means unchanged.
type UpdateUserRequest struct {
	FullName          *string  `json:"full_name"`
	Phone             *string  `json:"phone"`
	ProfilePhoto      *string  `json:"profile_photo"`
	BusinessAddress   *string  `json:"business_address"`
	City              *string  `json:"city"`
	Sector            *string  `json:"sector"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Bio               *string  `json:"bio"`
	AvailabilityDays  []string `json:"availability_days"`
	AvailabilityTimes []string `json:"availability_times"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the token pair and the authenticated profile.
type LoginResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// AccountStatusResponse reports moderation and suspension state for an account.
type AccountStatusResponse struct {
	Success        bool           `json:"success"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	AccountStatus  AccountStatus  `json:"account_status"`
	IsVerified     bool           `json:"is_verified"`
}
