package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/domain"
)

// ViewerClaims returns the access-token claims the auth gate attached, or
// nil when the request is unauthenticated (possible behind OptionalAuth).
func ViewerClaims(c echo.Context) *domain.TokenClaims {
	claims, _ := c.Get(middleware.ClaimsContextKey).(*domain.TokenClaims)
	return claims
}

// MustViewerClaims returns the attached claims and fails with TokenMissing
// when the gate did not run. Presence of claims proves RequireAuth ran; a
// handler wired behind it should never see the error path.
func MustViewerClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims := ViewerClaims(c)
	if claims == nil {
		return nil, domain.NewAuthError(domain.TokenMissing, "access token is required")
	}
	return claims, nil
}
