package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// VerifyEmailResult reports email-verification consumption. AlreadyVerified
// is informational, not an error: the second attempt with the same token
// succeeds without re-flipping state or re-issuing tokens.
type VerifyEmailResult struct {
	AlreadyVerified bool
	Pair            domain.TokenPair
}

// VerificationService implements the email-verification and forgot-password
// flows. Both token kinds are single-use and bound to a value stored on the
// user record, which is what prevents replay after first consumption.
type VerificationService interface {
	VerifyEmail(ctx context.Context, token string) (*VerifyEmailResult, error)
	ResendVerifyEmail(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	// VerifyForgotPassword checks a forgot-password token without consuming
	// it: signature valid AND exact match with the stored value.
	VerifyForgotPassword(ctx context.Context, token string) (*domain.TokenClaims, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}
