package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate wraps a handler and requires a valid Bearer token.
// The parsed claims are stored on the request context.
func Authenticate(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}

		claims, err := utils.ValidateToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// actorClaims returns the authenticated actor's claims from the context.
func actorClaims(r *http.Request) *utils.Claims {
	claims, _ := r.Context().Value(claimsKey).(*utils.Claims)
	return claims
}

// respondError maps a service error onto the wire format. Business errors
// keep their status code, anything else becomes a 500 with the fallback text.
func respondError(log logger.ILogger, w http.ResponseWriter, err error, fallback string) {
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		log.Warning(errorResponse.Message, logger.Int("status", errorResponse.StatusCode))
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	log.Error(fallback, logger.Error(err))
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
