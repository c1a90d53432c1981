package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// SessionService issues and revokes access/refresh credential pairs.
type SessionService interface {
	// IssuePair signs a fresh pair and persists the refresh token. The pair
	// is returned only after the refresh token is durably stored.
	IssuePair(ctx context.Context, userID string, verify domain.UserVerifyStatus) (domain.TokenPair, error)
	// Rotate replaces oldToken with a fresh pair. Deletion of the old token
	// is best-effort; under a concurrent rotation race the second caller
	// fails the store-lookup gate, which is what enforces single use.
	Rotate(ctx context.Context, oldToken, userID string, verify domain.UserVerifyStatus) (domain.TokenPair, error)
	// RevokeAll deletes every refresh token owned by the user.
	RevokeAll(ctx context.Context, userID string) error
	// CheckRefresh verifies a refresh token's signature AND its presence in
	// the store. Absence is a TokenRevoked failure even when the signature
	// still verifies.
	CheckRefresh(ctx context.Context, token string) (*domain.TokenClaims, error)
}
