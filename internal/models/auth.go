package models

import "time"

// OTPVerification is one emailed signup code. Codes expire after ten minutes.
type OTPVerification struct {
	ID        string    `json:"-"`
	UserID    string    `json:"-"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
	Verified  bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// PasswordResetToken is one emailed reset link token, valid for one hour.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
}

// ValidateOTPRequest is the body of the validate-otp endpoint.
type ValidateOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResendOTPRequest is the body of the resend-otp endpoint.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// RefreshRequest is the body of the token-refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse returns a fresh access token.
type RefreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
}

// PasswordResetRequestBody is the body of the reset-request endpoint.
type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetBody is the body of the reset endpoint.
type PasswordResetBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
