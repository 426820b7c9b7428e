package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/services"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"
)

// AuthHandler serves signup, verification, login and password recovery.
type AuthHandler struct {
	Service *services.AuthService
	Log     logger.ILogger
	Timeout time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, log logger.ILogger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Log:     log,
		Timeout: timeout,
	}
}

// SignupClient handles client registration.
func (h *AuthHandler) SignupClient(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, models.ClientUser)
}

// SignupSupplier handles supplier registration.
func (h *AuthHandler) SignupSupplier(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, models.SupplierUser)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request, userType models.UserType) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Signup(ctx, req, userType)
	if err != nil {
		h.sendError(w, err, "failed to sign up")
		return
	}

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
	})
}

// ValidateOTP handles the email verification code check.
func (h *AuthHandler) ValidateOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ValidateOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.ValidateOTP(ctx, req)
	if err != nil {
		h.sendError(w, err, "failed to validate code")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// ResendOTP handles requests for a fresh verification code.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResendOTP(ctx, req); err != nil {
		h.sendError(w, err, "failed to resend code")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Login handles credential checks and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(ctx, req)
	if err != nil {
		h.sendError(w, err, "failed to log in")
		return
	}

	utils.SendJSON(w, http.StatusOK, resp)
}

// Refresh handles access token renewal.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Refresh(ctx, req)
	if err != nil {
		h.sendError(w, err, "failed to refresh token")
		return
	}

	utils.SendJSON(w, http.StatusOK, resp)
}

// RequestPasswordReset handles reset link requests.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.PasswordResetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RequestPasswordReset(ctx, req); err != nil {
		h.sendError(w, err, "failed to request password reset")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "if the account exists, a reset email has been sent",
	})
}

// ResetPassword handles the token-based password change.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.PasswordResetBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPassword(ctx, req); err != nil {
		h.sendError(w, err, "failed to reset password")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AccountStatus reports moderation state for an account by email.
func (h *AuthHandler) AccountStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	resp, err := h.Service.AccountStatus(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.sendError(w, err, "failed to fetch account status")
		return
	}

	utils.SendJSON(w, http.StatusOK, resp)
}

// GetUser returns one profile by id.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	user, err := h.Service.GetUser(ctx, r.PathValue("userId"))
	if err != nil {
		h.sendError(w, err, "failed to fetch user")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// UpdateUser applies profile changes for the authenticated actor.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := actorClaims(r)
	user, err := h.Service.UpdateUser(ctx, claims.UserID, r.PathValue("userId"), req)
	if err != nil {
		h.sendError(w, err, "failed to update user")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// DeleteAccount removes the authenticated actor's account.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	claims := actorClaims(r)
	if err := h.Service.DeleteAccount(ctx, claims.UserID); err != nil {
		h.sendError(w, err, "failed to delete account")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	respondError(h.Log, w, err, fallback)
}
