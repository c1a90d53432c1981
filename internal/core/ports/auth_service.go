package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult carries the outcome of a flow that establishes a session.
type AuthResult struct {
	User *domain.User
	Pair domain.TokenPair
}

// OAuthResult is AuthResult plus the flag the callback redirect needs to
// tell the client whether the account was just created.
type OAuthResult struct {
	Pair    domain.TokenPair
	Verify  domain.UserVerifyStatus
	NewUser bool
}

// AuthService implements account and session flows.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	OAuthGoogle(ctx context.Context, code string) (*OAuthResult, error)
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	SetRestrictedCircle(ctx context.Context, userID string, memberIDs []string) (*domain.User, error)
}
