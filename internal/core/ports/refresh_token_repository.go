package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// RefreshTokenRepository is the source of truth for refresh-token validity.
// A refresh token authenticates only while its exact string is present here;
// deletion (logout, rotation) revokes it regardless of signature validity.
//
// Deletes are idempotent: removing an absent token is a no-op, not an error.
type RefreshTokenRepository interface {
	Insert(ctx context.Context, userID, token string) error
	// FindByToken returns (nil, nil) when no record matches.
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}
