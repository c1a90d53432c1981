package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// CooldownLimiter abstracts the per-key issuance cooldown store (Redis).
type CooldownLimiter interface {
	// TryAcquire reports whether the key was free and is now held for the
	// cooldown window.
	TryAcquire(ctx context.Context, key string) (bool, error)
}

// VerificationService implements email verification and password recovery.
// Both token kinds are single-use: the signed value is stored on the user
// record at issuance and cleared on consumption, so a replayed token fails
// the stored-value comparison even while its signature verifies.
type VerificationService struct {
	users    ports.UserRepository
	sessions ports.SessionService
	codec    ports.TokenCodec
	mail     ports.MailQueue
	cooldown CooldownLimiter
	log      zerolog.Logger
}

func NewVerificationService(
	users ports.UserRepository,
	sessions ports.SessionService,
	codec ports.TokenCodec,
	mail ports.MailQueue,
	cooldown CooldownLimiter,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		mail:     mail,
		cooldown: cooldown,
		log:      log,
	}
}

// VerifyEmail consumes an email-verification token: clears the stored token,
// flips the account to Verified, and issues a fresh pair under the new
// status so the client does not need to re-authenticate. A second attempt
// with the same token reports AlreadyVerified without re-flipping state.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) (*ports.VerifyEmailResult, error) {
	claims, err := s.codec.Verify(token, domain.KindEmailVerifyToken)
	if err != nil {
		metrics.EmailVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerifyToken == "" {
		metrics.EmailVerificationsTotal.WithLabelValues("already_verified").Inc()
		return &ports.VerifyEmailResult{AlreadyVerified: true}, nil
	}

	empty := ""
	verified := domain.VerifyStatusVerified
	updated, err := s.users.UpdateReturning(ctx, user.ID, ports.UserUpdate{
		EmailVerifyToken: &empty,
		Verify:           &verified,
	})
	if err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}

	pair, err := s.sessions.IssuePair(ctx, updated.ID, updated.Verify)
	if err != nil {
		return nil, err
	}

	metrics.EmailVerificationsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", updated.ID).Msg("email verified")
	return &ports.VerifyEmailResult{Pair: pair}, nil
}

// ResendVerifyEmail signs a new verification token, replacing any pending
// one, and queues the email. Rate-limited per user.
func (s *VerificationService) ResendVerifyEmail(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verify == domain.VerifyStatusVerified {
		return nil
	}
	if user.Verify == domain.VerifyStatusBanned {
		return domain.ErrBanned
	}

	ok, err := s.cooldown.TryAcquire(ctx, "verify_email:"+userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("cooldown check failed, issuing anyway")
	} else if !ok {
		return domain.ErrTooManyRequests
	}

	token, err := s.codec.Sign(user.ID, user.Verify, domain.KindEmailVerifyToken)
	if err != nil {
		return fmt.Errorf("sign email verify token: %w", err)
	}
	if err := s.users.Update(ctx, user.ID, ports.UserUpdate{EmailVerifyToken: &token}); err != nil {
		return fmt.Errorf("store email verify token: %w", err)
	}

	s.mail.Enqueue(ports.EmailJob{
		Kind:      ports.EmailVerifyAccount,
		Recipient: user.Email,
		Token:     token,
	})
	return nil
}

// ForgotPassword signs a recovery token and stores it verbatim on the user
// record. Issuing a new token supersedes any earlier one: the stored-value
// comparison in VerifyForgotPassword rejects the older token from then on.
func (s *VerificationService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrEmailNotFound
		}
		return err
	}

	ok, err := s.cooldown.TryAcquire(ctx, "forgot_password:"+user.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("cooldown check failed, issuing anyway")
	} else if !ok {
		return domain.ErrTooManyRequests
	}

	token, err := s.codec.Sign(user.ID, user.Verify, domain.KindForgotPasswordToken)
	if err != nil {
		return fmt.Errorf("sign forgot password token: %w", err)
	}
	if err := s.users.Update(ctx, user.ID, ports.UserUpdate{ForgotPasswordToken: &token}); err != nil {
		return fmt.Errorf("store forgot password token: %w", err)
	}

	s.mail.Enqueue(ports.EmailJob{
		Kind:      ports.EmailResetPassword,
		Recipient: user.Email,
		Token:     token,
	})
	return nil
}

// VerifyForgotPassword checks a recovery token without consuming it. The
// signature must verify AND the token must equal the value stored on the
// user record: a cryptographically valid token superseded by a later request
// is rejected with TokenRevoked.
func (s *VerificationService) VerifyForgotPassword(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.codec.Verify(token, domain.KindForgotPasswordToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.ForgotPasswordToken != token {
		return nil, domain.NewAuthError(domain.TokenRevoked, "forgot password token is invalid")
	}
	return claims, nil
}

// ResetPassword consumes a recovery token: stores the new password hash and
// clears the stored token in one update.
//
// Like ChangePassword, existing sessions stay alive after the reset.
func (s *VerificationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.VerifyForgotPassword(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	newHash := string(hash)
	empty := ""
	if err := s.users.Update(ctx, claims.UserID, ports.UserUpdate{
		PasswordHash:        &newHash,
		ForgotPasswordToken: &empty,
	}); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	metrics.PasswordResetsTotal.Inc()
	s.log.Info().Str("user_id", claims.UserID).Msg("password reset")
	return nil
}
