package service

import (
	"testing"
	"time"

	"github.com/chirpnet/social-api/internal/core/domain"
)

func TestTokenCodec_SignVerifyRoundtrip(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindAccessToken)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	claims, err := codec.Verify(token, domain.KindAccessToken)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Fatalf("expected user_1, got %s", claims.UserID)
	}
	if claims.Kind != domain.KindAccessToken {
		t.Fatalf("unexpected kind: %v", claims.Kind)
	}
	if claims.Verify != domain.VerifyStatusVerified {
		t.Fatalf("unexpected verify status: %v", claims.Verify)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expiry %v not after issued-at %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestTokenCodec_KindIsolation(t *testing.T) {
	codec := newTestCodec()

	// A token signed for one kind must never verify in another kind's
	// context: each kind uses a distinct secret.
	refresh, err := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindRefreshToken)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	_, err = codec.Verify(refresh, domain.KindAccessToken)
	ae, ok := domain.AsAuthError(err)
	if !ok {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Kind != domain.TokenInvalid {
		t.Fatalf("expected TokenInvalid, got %v", ae.Kind)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(map[domain.TokenKind]KindConfig{
		domain.KindAccessToken: {Secret: "access-secret", TTL: -time.Minute},
	})

	token, err := codec.Sign("user_1", domain.VerifyStatusUnverified, domain.KindAccessToken)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	_, err = codec.Verify(token, domain.KindAccessToken)
	ae, ok := domain.AsAuthError(err)
	if !ok {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Kind != domain.TokenInvalid {
		t.Fatalf("expected TokenInvalid for expired token, got %v", ae.Kind)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec()

	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(input, domain.KindAccessToken)
		ae, ok := domain.AsAuthError(err)
		if !ok {
			t.Fatalf("input %q: expected AuthError, got %v", input, err)
		}
		if ae.Kind != domain.TokenMalformed {
			t.Fatalf("input %q: expected TokenMalformed, got %v", input, ae.Kind)
		}
	}
}

func TestTokenCodec_UnknownKind(t *testing.T) {
	codec := NewTokenCodec(map[domain.TokenKind]KindConfig{})

	if _, err := codec.Sign("user_1", domain.VerifyStatusVerified, domain.KindAccessToken); err == nil {
		t.Fatalf("expected error signing with unconfigured kind")
	}
	if _, err := codec.Verify("whatever", domain.KindAccessToken); err == nil {
		t.Fatalf("expected error verifying with unconfigured kind")
	}
}
