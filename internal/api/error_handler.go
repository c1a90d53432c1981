package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps token failures (tagged *domain.AuthError) and known domain errors
//     to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Token failures: the kind enum is matched exhaustively so every
	// verification outcome has exactly one status. The message carries the
	// verifier detail so clients can tell "log in again" from
	// "insufficient privilege".
	if ae, ok := domain.AsAuthError(err); ok {
		switch ae.Kind {
		case domain.TokenMissing, domain.TokenMalformed, domain.TokenInvalid, domain.TokenRevoked:
			return http.StatusUnauthorized, ae.Message
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrTweetNotFound):
		return http.StatusNotFound, "tweet not found"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "email already exists"
	case errors.Is(err, domain.ErrEmailNotFound):
		return http.StatusBadRequest, "email does not exist"
	case errors.Is(err, domain.ErrWrongCredentials):
		return http.StatusBadRequest, "email or password is incorrect"
	case errors.Is(err, domain.ErrWrongOldPassword):
		return http.StatusBadRequest, "old password is incorrect"
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusForbidden, "user has not verified email"
	case errors.Is(err, domain.ErrBanned):
		return http.StatusForbidden, "user is banned"
	case errors.Is(err, domain.ErrLoginRequired):
		return http.StatusUnauthorized, "you must be logged in to view this tweet"
	case errors.Is(err, domain.ErrTweetNotPublic):
		return http.StatusForbidden, "tweet is not public"
	case errors.Is(err, domain.ErrUnverifiedFederatedEmail):
		return http.StatusBadRequest, "federated email is not verified"
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, "please wait before requesting again"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
