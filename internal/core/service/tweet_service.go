package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// TweetService implements tweet creation and audience-gated reads.
type TweetService struct {
	tweets ports.TweetRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewTweetService(tweets ports.TweetRepository, users ports.UserRepository, log zerolog.Logger) *TweetService {
	return &TweetService{tweets: tweets, users: users, log: log}
}

// Create persists a new tweet for the user.
func (s *TweetService) Create(ctx context.Context, userID string, in ports.CreateTweetInput) (*domain.Tweet, error) {
	now := time.Now().UTC()
	tweet, err := s.tweets.Create(ctx, &domain.Tweet{
		UserID:    userID,
		Type:      in.Type,
		Audience:  in.Audience,
		Content:   in.Content,
		ParentID:  in.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tweet_id", tweet.ID).Str("user_id", userID).Msg("tweet created")
	return tweet, nil
}

// Get returns the tweet once the visibility gate passes for the viewer, then
// bumps the matching view counter. viewer is nil for unauthenticated reads.
func (s *TweetService) Get(ctx context.Context, tweetID string, viewer *domain.TokenClaims) (*domain.Tweet, error) {
	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	if err := s.checkVisibility(ctx, tweet, viewer); err != nil {
		return nil, err
	}

	updated, err := s.tweets.IncreaseViews(ctx, tweet.ID, viewer != nil)
	if err != nil {
		// The read already passed the gate; losing a view bump is tolerable.
		s.log.Warn().Err(err).Str("tweet_id", tweet.ID).Msg("failed to bump view counter")
		return tweet, nil
	}
	return updated, nil
}

// checkVisibility decides whether the viewer may read the tweet. Everyone
// tweets are always readable. RestrictedCircle tweets require a login first
// (LoginRequired, distinct from Forbidden), then membership in the author's
// circle loaded fresh at read time, unless the viewer is the author.
func (s *TweetService) checkVisibility(ctx context.Context, tweet *domain.Tweet, viewer *domain.TokenClaims) error {
	if tweet.Audience != domain.AudienceRestrictedCircle {
		return nil
	}
	if viewer == nil {
		metrics.RestrictedReadsDeniedTotal.WithLabelValues("login_required").Inc()
		return domain.ErrLoginRequired
	}
	if viewer.UserID == tweet.UserID {
		return nil
	}

	author, err := s.users.FindByID(ctx, tweet.UserID)
	if err != nil {
		return err
	}
	if !author.InCircle(viewer.UserID) {
		metrics.RestrictedReadsDeniedTotal.WithLabelValues("not_in_circle").Inc()
		return domain.ErrTweetNotPublic
	}
	return nil
}
