package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/google/uuid"
)

// requireClaims writes 401 and returns false when the request carries no identity.
func requireClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Request without user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}

// authorizeAccount lets the account owner and admins through.
func authorizeAccount(w http.ResponseWriter, r *http.Request, accountID uuid.UUID) (*models.Claims, bool) {

	claims, ok := requireClaims(w, r)
	if !ok {
		return nil, false
	}

	if !middleware.CanActFor(claims, accountID) {
		middleware.LoggerFromContext(r.Context()).Warn("Attempted to act on another account",
			slog.String("requesterId", claims.UserID.String()),
			slog.String("accountId", accountID.String()),
		)
		response.Error(w, errors.ForbiddenError("You don't have permission to access this account"))
		return nil, false
	}

	return claims, true
}
