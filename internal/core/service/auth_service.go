package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// AuthService implements account and session flows: register, login, logout,
// refresh rotation, password change, and federated login.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionService
	codec    ports.TokenCodec
	oauth    ports.OAuthProvider
	mail     ports.MailQueue
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionService,
	codec ports.TokenCodec,
	oauth ports.OAuthProvider,
	mail ports.MailQueue,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		oauth:    oauth,
		mail:     mail,
		log:      log,
	}
}

// Register creates an account, queues the verification email, and opens a
// session. The email uniqueness pre-check accepts a narrow race window; the
// storage unique index is the backstop.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Verify:       domain.VerifyStatusUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	verifyToken, err := s.codec.Sign(user.ID, user.Verify, domain.KindEmailVerifyToken)
	if err != nil {
		return nil, fmt.Errorf("sign email verify token: %w", err)
	}
	if err := s.users.Update(ctx, user.ID, ports.UserUpdate{EmailVerifyToken: &verifyToken}); err != nil {
		return nil, fmt.Errorf("store email verify token: %w", err)
	}
	user.EmailVerifyToken = verifyToken

	s.mail.Enqueue(ports.EmailJob{
		Kind:      ports.EmailVerifyAccount,
		Recipient: user.Email,
		Token:     verifyToken,
	})

	pair, err := s.sessions.IssuePair(ctx, user.ID, user.Verify)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{User: user, Pair: pair}, nil
}

// Login authenticates by email and password. Both a missing account and a
// wrong password surface the same generic error so the response never
// discloses whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrWrongCredentials
		}
		return nil, err
	}
	if user.Verify == domain.VerifyStatusBanned {
		return nil, domain.ErrBanned
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrWrongCredentials
	}

	pair, err := s.sessions.IssuePair(ctx, user.ID, user.Verify)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Pair: pair}, nil
}

// Logout deletes every refresh token the user owns. Any previously issued
// refresh token fails the store gate afterwards.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.RevokeAll(ctx, userID)
}

// Refresh rotates a refresh token into a fresh pair. The token must pass
// both the signature check and the store-lookup gate; a rotated or
// logged-out token fails with TokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.sessions.CheckRefresh(ctx, refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return s.sessions.Rotate(ctx, refreshToken, claims.UserID, claims.Verify)
}

// ChangePassword verifies the old password and stores a new hash.
//
// Existing sessions are deliberately left alive to match current behavior;
// revoking them here would be the safer choice and is tracked as a
// hardening gap.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	newHash := string(hash)
	if err := s.users.Update(ctx, userID, ports.UserUpdate{PasswordHash: &newHash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// OAuthGoogle exchanges an authorization code for a federated identity and
// opens a session, creating the account on first login. A federated email
// the provider has not verified is rejected outright.
func (s *AuthService) OAuthGoogle(ctx context.Context, code string) (*ports.OAuthResult, error) {
	tokens, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}
	identity, err := s.oauth.FetchIdentity(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("fetch oauth identity: %w", err)
	}
	if !identity.EmailVerified {
		return nil, domain.ErrUnverifiedFederatedEmail
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	newUser := false
	if user == nil {
		now := time.Now().UTC()
		user, err = s.users.Create(ctx, &domain.User{
			Name:      identity.Name,
			Email:     identity.Email,
			Verify:    domain.VerifyStatusVerified,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		newUser = true
		s.log.Info().Str("user_id", user.ID).Msg("user created from federated identity")
	}
	if user.Verify == domain.VerifyStatusBanned {
		return nil, domain.ErrBanned
	}

	pair, err := s.sessions.IssuePair(ctx, user.ID, user.Verify)
	if err != nil {
		return nil, err
	}

	return &ports.OAuthResult{Pair: pair, Verify: user.Verify, NewUser: newUser}, nil
}

// GetMe returns the caller's own profile.
func (s *AuthService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// SetRestrictedCircle replaces the caller's restricted-circle allow-list.
// Every member id must reference an existing user.
func (s *AuthService) SetRestrictedCircle(ctx context.Context, userID string, memberIDs []string) (*domain.User, error) {
	for _, id := range memberIDs {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.users.UpdateReturning(ctx, userID, ports.UserUpdate{RestrictedCircle: &memberIDs})
}
