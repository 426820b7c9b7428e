package services

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/fixcars/fixcars-service/internal/mailer"
	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/jackc/pgx/v5"
)

const (
	otpTTL         = 10 * time.Minute
	resetTokenTTL  = time.Hour
	otpResendDelay = time.Minute
	minPasswordLen = 8
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	Users     repository.UserRepository
	Auth      repository.AuthRepository
	Mail      mailer.Sender
	Log       logger.ILogger
	JWTSecret string

	// now is swapped in tests to pin OTP expiry checks.
	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, auth repository.AuthRepository,
	mail mailer.Sender, log logger.ILogger, jwtSecret string) *AuthService {
	return &AuthService{
		Users:     users,
		Auth:      auth,
		Mail:      mail,
		Log:       log,
		JWTSecret: jwtSecret,
		now:       time.Now,
	}
}

// Signup registers a new account and emails a verification code. If the
// email cannot be delivered the created rows are removed again.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest, userType models.UserType) (*models.User, error) {
	if req.FullName == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: full_name, email, phone or password")
	}
	if !emailRe.MatchString(req.Email) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < minPasswordLen {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if userType == models.SupplierUser {
		if req.BusinessAddress == "" || req.City == "" || req.Latitude == nil || req.Longitude == nil {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "suppliers must provide business_address, city, latitude and longitude")
		}
	}
	if req.City != "" && !models.IsRomanianCity(req.City) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "unsupported city: "+req.City)
	}

	emailTaken, err := s.Users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if emailTaken {
		return nil, models.NewErrorResponse(http.StatusConflict, "email already registered")
	}
	phoneTaken, err := s.Users.PhoneExists(ctx, req.Phone)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if phoneTaken {
		return nil, models.NewErrorResponse(http.StatusConflict, "phone already registered")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	user, err := s.Users.CreateUser(ctx, req, userType, passwordHash)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	code := utils.GenerateOTP()
	if _, err = s.Auth.CreateOTP(ctx, user.ID, code, s.now().Add(otpTTL)); err == nil {
		err = s.Mail.SendOTP(user.Email, code)
	}
	if err != nil {
		// The signup is only complete once the code is on its way.
		s.Log.Error("signup verification email failed", logger.String("email", user.Email), logger.Error(err))
		if delErr := s.Users.DeleteUser(ctx, user.ID); delErr != nil {
			s.Log.Error("failed to roll back user after email failure", logger.Error(delErr))
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to send verification email")
	}

	return user, nil
}

// ValidateOTP checks a signup code and marks the account verified.
func (s *AuthService) ValidateOTP(ctx context.Context, req models.ValidateOTPRequest) (*models.User, error) {
	if req.Email == "" || req.Code == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: email or code")
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "account not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	otp, err := s.Auth.GetLatestOTP(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "no verification code found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if otp.Verified {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "verification code already used")
	}
	if s.now().After(otp.ExpiresAt) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "verification code expired")
	}
	if otp.Code != req.Code {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid verification code")
	}

	if err := s.Auth.MarkOTPVerified(ctx, otp.ID); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if err := s.Users.MarkVerified(ctx, user.ID); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	user.IsVerified = true

	if err := s.Mail.SendWelcome(user.Email, user.FullName); err != nil {
		s.Log.Warning("welcome email failed", logger.Error(err))
	}

	return user, nil
}

// ResendOTP issues a fresh verification code, at most once per minute.
func (s *AuthService) ResendOTP(ctx context.Context, req models.ResendOTPRequest) error {
	if req.Email == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required field: email")
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewErrorResponse(http.StatusNotFound, "account not found")
		}
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if user.IsVerified {
		return models.NewErrorResponse(http.StatusBadRequest, "account already verified")
	}

	if last, err := s.Auth.GetLatestOTP(ctx, user.ID); err == nil {
		if s.now().Sub(last.CreatedAt) < otpResendDelay {
			return models.NewErrorResponse(http.StatusTooManyRequests, "please wait before requesting a new code")
		}
	}

	code := utils.GenerateOTP()
	if _, err := s.Auth.CreateOTP(ctx, user.ID, code, s.now().Add(otpTTL)); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if err := s.Mail.SendOTP(user.Email, code); err != nil {
		s.Log.Error("resend verification email failed", logger.Error(err))
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to send verification email")
	}
	return nil
}

// Login checks credentials and returns a token pair.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: email or password")
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid email or password")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid email or password")
	}
	if !user.IsVerified {
		return nil, models.NewErrorResponse(http.StatusForbidden, "account not verified")
	}
	if user.AccountStatus != models.ActiveAccount {
		return nil, models.NewErrorResponse(http.StatusForbidden, "account suspended")
	}

	accessToken, err := utils.GenerateAccessToken(user, s.JWTSecret)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	refreshToken, err := utils.GenerateRefreshToken(user, s.JWTSecret)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	return &models.LoginResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshRequest) (*models.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required field: refresh_token")
	}

	claims, err := utils.ValidateToken(req.RefreshToken, s.JWTSecret)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid refresh token")
	}
	user, err := s.Users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid refresh token")
	}

	accessToken, err := utils.GenerateAccessToken(user, s.JWTSecret)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return &models.RefreshResponse{Success: true, AccessToken: accessToken}, nil
}

// RequestPasswordReset emails a reset link. Always succeeds so account
// existence cannot be probed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequestBody) error {
	if req.Email == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required field: email")
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.Log.Error("password reset lookup failed", logger.Error(err))
		}
		return nil
	}

	token := utils.GenerateResetToken()
	if err := s.Auth.CreateResetToken(ctx, user.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		s.Log.Error("failed to store reset token", logger.Error(err))
		return nil
	}
	if err := s.Mail.SendPasswordReset(user.Email, token, user.FullName); err != nil {
		s.Log.Error("password reset email failed", logger.Error(err))
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req models.PasswordResetBody) error {
	if req.Token == "" || req.NewPassword == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing required fields: token or new_password")
	}
	if len(req.NewPassword) < minPasswordLen {
		return models.NewErrorResponse(http.StatusBadRequest, "password must be at least 8 characters")
	}

	token, err := s.Auth.GetResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewErrorResponse(http.StatusBadRequest, "invalid reset token")
		}
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if token.Used {
		return models.NewErrorResponse(http.StatusBadRequest, "reset token already used")
	}
	if s.now().After(token.ExpiresAt) {
		return models.NewErrorResponse(http.StatusBadRequest, "reset token expired")
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if err := s.Users.UpdatePassword(ctx, token.UserID, passwordHash); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if err := s.Auth.MarkTokenUsed(ctx, token.ID); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return nil
}

// AccountStatus reports moderation state for an account by email.
func (s *AuthService) AccountStatus(ctx context.Context, email string) (*models.AccountStatusResponse, error) {
	if email == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: email")
	}
	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "account not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return &models.AccountStatusResponse{
		Success:        true,
		ApprovalStatus: user.ApprovalStatus,
		AccountStatus:  user.AccountStatus,
		IsVerified:     user.IsVerified,
	}, nil
}

// GetUser returns one profile.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "user not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return user, nil
}

// UpdateUser applies profile changes. Users can only edit themselves.
func (s *AuthService) UpdateUser(ctx context.Context, actorID, targetID string, req models.UpdateUserRequest) (*models.User, error) {
	if actorID != targetID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you can only edit your own profile")
	}
	if req.City != nil && *req.City != "" && !models.IsRomanianCity(*req.City) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "unsupported city: "+*req.City)
	}
	if _, err := s.GetUser(ctx, targetID); err != nil {
		return nil, err
	}

	user, err := s.Users.UpdateUser(ctx, targetID, req)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return user, nil
}

// DeleteAccount removes the actor's account and every dependent row.
func (s *AuthService) DeleteAccount(ctx context.Context, actorID string) error {
	if _, err := s.GetUser(ctx, actorID); err != nil {
		return err
	}
	if err := s.Users.DeleteUser(ctx, actorID); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return nil
}
