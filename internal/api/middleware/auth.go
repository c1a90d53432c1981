package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// ClaimsContextKey is where the auth gate stores the decoded access-token
// claims (*domain.TokenClaims). Claims are set exactly once per request and
// read through handler.ViewerClaims; nothing downstream mutates them.
const ClaimsContextKey = "auth_claims"

const bearerScheme = "Bearer"

// RequireAuth verifies the bearer access token and attaches its claims.
//
// Failure cases are distinguished: a missing header (TokenMissing), a wrong
// scheme (TokenMalformed), and a bad signature or elapsed expiry
// (TokenInvalid, carrying the verifier's message). All reject with 401 via
// the central error handler.
func RequireAuth(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := gate(c, codec)
			if err != nil {
				return err
			}
			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}

// OptionalAuth runs the same gate only when an Authorization header is
// present; without one the request continues unauthenticated. Used by
// endpoints readable by both guests and members.
func OptionalAuth(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			claims, err := gate(c, codec)
			if err != nil {
				return err
			}
			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}

// RequireVerified rejects with 403 when the attached claims carry Unverified
// status. Pure claims check, no storage access; must run after RequireAuth.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get(ClaimsContextKey).(*domain.TokenClaims)
			if claims == nil {
				return domain.NewAuthError(domain.TokenMissing, "access token is required")
			}
			if claims.Verify == domain.VerifyStatusUnverified {
				return domain.ErrNotVerified
			}
			if claims.Verify == domain.VerifyStatusBanned {
				return domain.ErrBanned
			}
			return next(c)
		}
	}
}

func gate(c echo.Context, codec ports.TokenCodec) (*domain.TokenClaims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, domain.NewAuthError(domain.TokenMissing, "access token is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerScheme {
		metrics.TokenVerificationsTotal.WithLabelValues(domain.KindAccessToken.String(), "invalid").Inc()
		return nil, domain.NewAuthError(domain.TokenMalformed, "access token is malformed")
	}

	claims, err := codec.Verify(parts[1], domain.KindAccessToken)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(domain.KindAccessToken.String(), "invalid").Inc()
		return nil, err
	}

	metrics.TokenVerificationsTotal.WithLabelValues(domain.KindAccessToken.String(), "ok").Inc()
	return claims, nil
}
