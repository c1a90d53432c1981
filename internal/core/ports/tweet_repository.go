package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// TweetRepository handles tweet persistence.
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) (*domain.Tweet, error)
	FindByID(ctx context.Context, id string) (*domain.Tweet, error)
	// IncreaseViews bumps guest_views or user_views depending on whether the
	// reader was authenticated and returns the updated counters.
	IncreaseViews(ctx context.Context, id string, authenticated bool) (*domain.Tweet, error)
}
