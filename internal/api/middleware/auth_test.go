package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/service"
)

func newTestCodec() *service.TokenCodec {
	return service.NewTokenCodec(map[domain.TokenKind]service.KindConfig{
		domain.KindAccessToken:  {Secret: "access-secret", TTL: 15 * time.Minute},
		domain.KindRefreshToken: {Secret: "refresh-secret", TTL: time.Hour},
	})
}

// run sends a request with the given Authorization header through mw and a
// handler that records the claims the gate attached.
func run(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*domain.TokenClaims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.TokenClaims
	handler := mw(func(c echo.Context) error {
		got, _ = c.Get(ClaimsContextKey).(*domain.TokenClaims)
		return c.NoContent(http.StatusOK)
	})
	return got, handler(c)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	codec := newTestCodec()
	token, err := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindAccessToken)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := run(t, RequireAuth(codec), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if claims == nil || claims.UserID != "user_1" {
		t.Fatalf("expected claims for user_1, got %+v", claims)
	}
	if claims.Verify != domain.VerifyStatusVerified {
		t.Fatalf("expected verified status snapshot, got %v", claims.Verify)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, err := run(t, RequireAuth(newTestCodec()), "")
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenMissing {
		t.Fatalf("expected TokenMissing, got %v", err)
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	codec := newTestCodec()
	token, _ := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindAccessToken)

	for _, header := range []string{"Basic " + token, token} {
		_, err := run(t, RequireAuth(codec), header)
		ae, ok := domain.AsAuthError(err)
		if !ok || ae.Kind != domain.TokenMalformed {
			t.Fatalf("header %q: expected TokenMalformed, got %v", header, err)
		}
	}
}

func TestRequireAuth_WrongKind(t *testing.T) {
	codec := newTestCodec()
	// A refresh token is signed with a different secret and must not pass
	// the access gate.
	token, _ := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindRefreshToken)

	_, err := run(t, RequireAuth(codec), "Bearer "+token)
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenInvalid {
		t.Fatalf("expected TokenInvalid, got %v", err)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	codec := service.NewTokenCodec(map[domain.TokenKind]service.KindConfig{
		domain.KindAccessToken: {Secret: "access-secret", TTL: -time.Minute},
	})
	token, _ := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindAccessToken)

	_, err := run(t, RequireAuth(codec), "Bearer "+token)
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenInvalid {
		t.Fatalf("expected TokenInvalid, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	codec := newTestCodec()

	// No header: the request continues unauthenticated.
	claims, err := run(t, OptionalAuth(codec), "")
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if claims != nil {
		t.Fatalf("expected no claims, got %+v", claims)
	}

	// With a header the full gate runs: a valid token attaches claims, a
	// garbage one rejects instead of degrading to guest.
	token, _ := codec.Sign("user_2", domain.VerifyStatusVerified, domain.KindAccessToken)
	claims, err = run(t, OptionalAuth(codec), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected valid token to pass, got %v", err)
	}
	if claims == nil || claims.UserID != "user_2" {
		t.Fatalf("expected claims for user_2, got %+v", claims)
	}

	_, err = run(t, OptionalAuth(codec), "Bearer garbage")
	if _, ok := domain.AsAuthError(err); !ok {
		t.Fatalf("expected auth error for garbage token, got %v", err)
	}
}

func TestRequireVerified(t *testing.T) {
	cases := []struct {
		name   string
		verify domain.UserVerifyStatus
		want   error
	}{
		{"verified passes", domain.VerifyStatusVerified, nil},
		{"unverified forbidden", domain.VerifyStatusUnverified, domain.ErrNotVerified},
		{"banned forbidden", domain.VerifyStatusBanned, domain.ErrBanned},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(ClaimsContextKey, &domain.TokenClaims{UserID: "user_1", Verify: tc.verify})

			handler := RequireVerified()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRequireVerified_WithoutClaims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireVerified()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenMissing {
		t.Fatalf("expected TokenMissing, got %v", err)
	}
}
