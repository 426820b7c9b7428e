package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthServiceForTest(users *fakeUserRepo) (*AuthService, *fakeAuthRepo, *fakeMailer) {
	auth := newFakeAuthRepo()
	mail := newFakeMailer()
	svc := NewAuthService(users, auth, mail, logger.New("test", "error"), testJWTSecret)
	return svc, auth, mail
}

func clientSignup() models.SignupRequest {
	return models.SignupRequest{
		FullName: "Ion Popescu",
		Email:    "ion@example.com",
		Phone:    "+40700000001",
		Password: "parola-sigura",
	}
}

func TestSignup(t *testing.T) {
	t.Run("creates a client and emails a six digit code", func(t *testing.T) {
		users := newFakeUserRepo()
		svc, auth, mail := newAuthServiceForTest(users)

		user, err := svc.Signup(context.Background(), clientSignup(), models.ClientUser)
		require.NoError(t, err)
		assert.False(t, user.IsVerified)
		assert.Equal(t, models.ClientUser, user.UserType)

		code := mail.otps[user.Email]
		require.Len(t, code, 6)
		otp, err := auth.GetLatestOTP(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, code, otp.Code)
	})

	t.Run("supplier signup requires location fields and starts pending approval", func(t *testing.T) {
		users := newFakeUserRepo()
		svc, _, _ := newAuthServiceForTest(users)

		req := clientSignup()
		_, err := svc.Signup(context.Background(), req, models.SupplierUser)
		requireStatus(t, err, http.StatusBadRequest)

		req.BusinessAddress = "Str. Mecanicilor 1"
		req.City = "Bucharest"
		req.Latitude = f64(44.43)
		req.Longitude = f64(26.10)
		user, err := svc.Signup(context.Background(), req, models.SupplierUser)
		require.NoError(t, err)
		assert.Equal(t, models.PendingApproval, user.ApprovalStatus)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := newFakeUserRepo(&models.User{ID: "u1", Email: "ion@example.com", Phone: "+40711111111"})
		svc, _, _ := newAuthServiceForTest(users)

		_, err := svc.Signup(context.Background(), clientSignup(), models.ClientUser)
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("rolls the account back when the email fails", func(t *testing.T) {
		users := newFakeUserRepo()
		svc, _, mail := newAuthServiceForTest(users)
		mail.failNext = true

		_, err := svc.Signup(context.Background(), clientSignup(), models.ClientUser)
		requireStatus(t, err, http.StatusInternalServerError)
		assert.Empty(t, users.users)
	})

	t.Run("rejects unknown cities and short passwords", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(newFakeUserRepo())

		req := clientSignup()
		req.City = "Atlantida"
		_, err := svc.Signup(context.Background(), req, models.ClientUser)
		requireStatus(t, err, http.StatusBadRequest)

		req = clientSignup()
		req.Password = "scurt"
		_, err = svc.Signup(context.Background(), req, models.ClientUser)
		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestValidateOTP(t *testing.T) {
	signupAndCode := func(t *testing.T) (*AuthService, *fakeUserRepo, *models.User, string) {
		t.Helper()
		users := newFakeUserRepo()
		svc, _, mail := newAuthServiceForTest(users)
		user, err := svc.Signup(context.Background(), clientSignup(), models.ClientUser)
		require.NoError(t, err)
		return svc, users, user, mail.otps[user.Email]
	}

	t.Run("verifies the account", func(t *testing.T) {
		svc, users, user, code := signupAndCode(t)

		verified, err := svc.ValidateOTP(context.Background(), models.ValidateOTPRequest{Email: user.Email, Code: code})
		require.NoError(t, err)
		assert.True(t, verified.IsVerified)
		assert.True(t, users.users[user.ID].IsVerified)
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		svc, _, user, code := signupAndCode(t)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		_, err := svc.ValidateOTP(context.Background(), models.ValidateOTPRequest{Email: user.Email, Code: wrong})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("rejects an expired code", func(t *testing.T) {
		svc, _, user, code := signupAndCode(t)
		svc.now = func() time.Time { return time.Now().UTC().Add(11 * time.Minute) }

		_, err := svc.ValidateOTP(context.Background(), models.ValidateOTPRequest{Email: user.Email, Code: code})
		requireStatus(t, err, http.StatusBadRequest)
		assert.EqualError(t, err, "verification code expired")
	})

	t.Run("a code is single use", func(t *testing.T) {
		svc, _, user, code := signupAndCode(t)

		_, err := svc.ValidateOTP(context.Background(), models.ValidateOTPRequest{Email: user.Email, Code: code})
		require.NoError(t, err)
		_, err = svc.ValidateOTP(context.Background(), models.ValidateOTPRequest{Email: user.Email, Code: code})
		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestResendOTP(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, mail := newAuthServiceForTest(users)
	user, err := svc.Signup(context.Background(), clientSignup(), models.ClientUser)
	require.NoError(t, err)

	err = svc.ResendOTP(context.Background(), models.ResendOTPRequest{Email: user.Email})
	requireStatus(t, err, http.StatusTooManyRequests)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	first := mail.otps[user.Email]
	require.NoError(t, svc.ResendOTP(context.Background(), models.ResendOTPRequest{Email: user.Email}))
	assert.NotEqual(t, first, mail.otps[user.Email])
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("parola-sigura")
	require.NoError(t, err)

	makeUser := func() *models.User {
		return &models.User{
			ID:            "u1",
			Email:         "ion@example.com",
			PasswordHash:  hash,
			UserType:      models.ClientUser,
			AccountStatus: models.ActiveAccount,
			IsVerified:    true,
		}
	}

	login := models.LoginRequest{Email: "ion@example.com", Password: "parola-sigura"}

	t.Run("returns a usable token pair", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(newFakeUserRepo(makeUser()))

		resp, err := svc.Login(context.Background(), login)
		require.NoError(t, err)
		assert.True(t, resp.Success)

		claims, err := utils.ValidateToken(resp.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, models.ClientUser, claims.UserType)

		_, err = utils.ValidateToken(resp.RefreshToken, testJWTSecret)
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(newFakeUserRepo(makeUser()))

		_, err := svc.Login(context.Background(), models.LoginRequest{Email: login.Email, Password: "gresit"})
		requireStatus(t, err, http.StatusUnauthorized)
		wrongPass := err.Error()

		_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "gresit"})
		requireStatus(t, err, http.StatusUnauthorized)
		assert.Equal(t, wrongPass, err.Error())
	})

	t.Run("unverified account", func(t *testing.T) {
		user := makeUser()
		user.IsVerified = false
		svc, _, _ := newAuthServiceForTest(newFakeUserRepo(user))

		_, err := svc.Login(context.Background(), login)
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("suspended account", func(t *testing.T) {
		user := makeUser()
		user.AccountStatus = models.SuspendedAccount
		svc, _, _ := newAuthServiceForTest(newFakeUserRepo(user))

		_, err := svc.Login(context.Background(), login)
		requireStatus(t, err, http.StatusForbidden)
	})
}

func TestRefresh(t *testing.T) {
	user := &models.User{ID: "u1", UserType: models.ClientUser}
	svc, _, _ := newAuthServiceForTest(newFakeUserRepo(user))

	refreshToken, err := utils.GenerateRefreshToken(user, testJWTSecret)
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	claims, err := utils.ValidateToken(resp.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	_, err = svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: "garbage"})
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestPasswordReset(t *testing.T) {
	hash, err := utils.HashPassword("veche-parola")
	require.NoError(t, err)
	user := &models.User{ID: "u1", Email: "ion@example.com", PasswordHash: hash}

	t.Run("full reset flow", func(t *testing.T) {
		users := newFakeUserRepo(user)
		svc, _, mail := newAuthServiceForTest(users)

		require.NoError(t, svc.RequestPasswordReset(context.Background(), models.PasswordResetRequestBody{Email: user.Email}))
		token := mail.otps[user.Email]
		require.Len(t, token, 32)

		require.NoError(t, svc.ResetPassword(context.Background(), models.PasswordResetBody{
			Token:       token,
			NewPassword: "noua-parola",
		}))
		assert.True(t, utils.CheckPasswordHash("noua-parola", users.users[user.ID].PasswordHash))

		// The token is spent.
		err := svc.ResetPassword(context.Background(), models.PasswordResetBody{Token: token, NewPassword: "alta-parola"})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown email still succeeds", func(t *testing.T) {
		svc, _, mail := newAuthServiceForTest(newFakeUserRepo())

		require.NoError(t, svc.RequestPasswordReset(context.Background(), models.PasswordResetRequestBody{Email: "nobody@example.com"}))
		assert.Empty(t, mail.otps)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _, mail := newAuthServiceForTest(newFakeUserRepo(user))
		require.NoError(t, svc.RequestPasswordReset(context.Background(), models.PasswordResetRequestBody{Email: user.Email}))
		token := mail.otps[user.Email]

		svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
		err := svc.ResetPassword(context.Background(), models.PasswordResetBody{Token: token, NewPassword: "noua-parola"})
		requireStatus(t, err, http.StatusBadRequest)
		assert.EqualError(t, err, "reset token expired")
	})
}

func TestUpdateUser(t *testing.T) {
	user := &models.User{ID: "u1", FullName: "Ion", UserType: models.ClientUser}
	svc, _, _ := newAuthServiceForTest(newFakeUserRepo(user))

	name := "Ion Popescu"
	updated, err := svc.UpdateUser(context.Background(), "u1", "u1", models.UpdateUserRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)

	_, err = svc.UpdateUser(context.Background(), "u2", "u1", models.UpdateUserRequest{FullName: &name})
	requireStatus(t, err, http.StatusForbidden)

	city := "Narnia"
	_, err = svc.UpdateUser(context.Background(), "u1", "u1", models.UpdateUserRequest{City: &city})
	requireStatus(t, err, http.StatusBadRequest)
}
