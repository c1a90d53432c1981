package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// CreateTweetInput is the DTO passed from the transport layer to Create.
type CreateTweetInput struct {
	Type     domain.TweetType
	Audience domain.TweetAudience
	Content  string
	ParentID string
}

// TweetService implements tweet creation and audience-gated reads.
type TweetService interface {
	Create(ctx context.Context, userID string, in CreateTweetInput) (*domain.Tweet, error)
	// Get returns the tweet after the visibility gate passes for the viewer.
	// viewer is nil for unauthenticated reads.
	Get(ctx context.Context, tweetID string, viewer *domain.TokenClaims) (*domain.Tweet, error)
}
