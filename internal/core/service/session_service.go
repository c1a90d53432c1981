package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// SessionService issues access/refresh pairs and manages refresh-token
// lifetime through the store.
type SessionService struct {
	codec       ports.TokenCodec
	refreshRepo ports.RefreshTokenRepository
	log         zerolog.Logger
}

func NewSessionService(codec ports.TokenCodec, refreshRepo ports.RefreshTokenRepository, log zerolog.Logger) *SessionService {
	return &SessionService{codec: codec, refreshRepo: refreshRepo, log: log}
}

// IssuePair signs a fresh access/refresh pair and persists the refresh
// token. A failed persist is fatal: the signed pair is never returned unless
// the refresh token is durably stored.
func (s *SessionService) IssuePair(ctx context.Context, userID string, verify domain.UserVerifyStatus) (domain.TokenPair, error) {
	access, err := s.codec.Sign(userID, verify, domain.KindAccessToken)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.Sign(userID, verify, domain.KindRefreshToken)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.refreshRepo.Insert(ctx, userID, refresh); err != nil {
		return domain.TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(domain.KindAccessToken.String()).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(domain.KindRefreshToken.String()).Inc()

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate deletes oldToken and issues a fresh pair. The delete is
// best-effort: a delete failure is logged loudly but does not block the new
// issuance. The fresh pair is returned only after its refresh token is
// durably stored.
func (s *SessionService) Rotate(ctx context.Context, oldToken, userID string, verify domain.UserVerifyStatus) (domain.TokenPair, error) {
	if err := s.refreshRepo.DeleteByToken(ctx, oldToken); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to delete rotated refresh token")
	}

	pair, err := s.IssuePair(ctx, userID, verify)
	if err != nil {
		return domain.TokenPair{}, err
	}

	metrics.TokensRotatedTotal.Inc()
	return pair, nil
}

// RevokeAll deletes every refresh token owned by the user, invalidating all
// of their sessions.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.refreshRepo.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	metrics.SessionsRevokedTotal.Inc()
	return nil
}

// CheckRefresh verifies a refresh token's signature and requires the exact
// token string to still exist in the store. A rotated or logged-out token
// passes the signature check but fails here with TokenRevoked.
func (s *SessionService) CheckRefresh(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, domain.NewAuthError(domain.TokenMissing, "refresh token is required")
	}

	claims, err := s.codec.Verify(token, domain.KindRefreshToken)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(domain.KindRefreshToken.String(), "invalid").Inc()
		return nil, err
	}

	stored, err := s.refreshRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if stored == nil {
		metrics.TokenVerificationsTotal.WithLabelValues(domain.KindRefreshToken.String(), "revoked").Inc()
		return nil, domain.NewAuthError(domain.TokenRevoked, "refresh token is used or does not exist")
	}

	metrics.TokenVerificationsTotal.WithLabelValues(domain.KindRefreshToken.String(), "ok").Inc()
	return claims, nil
}
