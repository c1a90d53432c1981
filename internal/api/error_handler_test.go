package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
)

func handle(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_AuthErrors(t *testing.T) {
	kinds := []domain.AuthErrorKind{
		domain.TokenMissing,
		domain.TokenMalformed,
		domain.TokenInvalid,
		domain.TokenRevoked,
	}
	for _, kind := range kinds {
		code, msg := handle(t, domain.NewAuthError(kind, "detail"))
		if code != http.StatusUnauthorized {
			t.Fatalf("kind %v: expected 401, got %d", kind, code)
		}
		if msg != "detail" {
			t.Fatalf("kind %v: expected verifier detail in body, got %q", kind, msg)
		}
	}
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrEmailExists, http.StatusConflict},
		{domain.ErrWrongCredentials, http.StatusBadRequest},
		{domain.ErrEmailNotFound, http.StatusBadRequest},
		{domain.ErrWrongOldPassword, http.StatusBadRequest},
		{domain.ErrUnverifiedFederatedEmail, http.StatusBadRequest},
		{domain.ErrNotVerified, http.StatusForbidden},
		{domain.ErrBanned, http.StatusForbidden},
		{domain.ErrTweetNotPublic, http.StatusForbidden},
		{domain.ErrLoginRequired, http.StatusUnauthorized},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrTweetNotFound, http.StatusNotFound},
		{domain.ErrTooManyRequests, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		if code, _ := handle(t, tc.err); code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := handle(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	// The real cause stays in the log, not the response.
	if msg != "internal server error" {
		t.Fatalf("expected generic message, got %q", msg)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := handle(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if msg != "Not Found" {
		t.Fatalf("expected echo message preserved, got %q", msg)
	}
}
