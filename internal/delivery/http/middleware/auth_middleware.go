// Package middleware contains the HTTP middleware chain for the service.
package middleware

import (
	"net/http"
	"strings"

	deliverycontext "accountd/internal/delivery/context"
	"accountd/internal/delivery/http/response"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// KeyClaims is the echo context key under which verified claims are stored.
	KeyClaims = "claims"

	bearerPrefix = "Bearer "

	authFailedMarker = "Failed"
	authNoTokenMsg   = "Authorization failed. No token"
	authForbiddenMsg = "Action Forbidden"
)

// AuthMiddleware provides middleware for token authentication and admin authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and attaches its claims to the request.
// Missing, malformed and badly signed tokens are all terminal for the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.AuthFailure(c, http.StatusUnauthorized, authNoTokenMsg, "")
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == authHeader {
			return response.AuthFailure(c, http.StatusUnauthorized, authFailedMarker, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.AuthFailure(c, http.StatusUnauthorized, authFailedMarker, failureReason(err))
		}

		// Claims travel on both the echo context (for handlers) and the
		// request context (for anything deeper).
		c.Set(KeyClaims, claims)
		c.SetRequest(c.Request().WithContext(
			deliverycontext.WithClaims(c.Request().Context(), claims),
		))

		return next(c)
	}
}

// RequireAdmin rejects requests whose claims lack the admin flag.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return response.AuthFailure(c, http.StatusForbidden, authFailedMarker, "Missing authentication claims")
		}

		if !claims.IsAdmin {
			return response.AuthFailure(c, http.StatusForbidden, authFailedMarker, authForbiddenMsg)
		}

		return next(c)
	}
}

// ClaimsFrom extracts the verified claims attached by Authenticate.
func ClaimsFrom(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(KeyClaims).(*service.Claims)

	return claims, ok
}

// failureReason maps a token validation error onto a user-facing message
// without leaking internals.
func failureReason(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return "Invalid token"
}
