package ports

import "github.com/chirpnet/social-api/internal/core/domain"

// TokenCodec signs and verifies bearer tokens. Each token kind uses its own
// secret and TTL, so verification in the wrong kind context fails on the
// signature alone; the embedded kind field is never trusted for this.
type TokenCodec interface {
	Sign(userID string, verify domain.UserVerifyStatus, kind domain.TokenKind) (string, error)
	// Verify returns the decoded claims or an *domain.AuthError
	// (TokenMalformed or TokenInvalid).
	Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error)
}
