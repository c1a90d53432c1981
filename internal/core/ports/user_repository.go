package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// UserUpdate describes a partial update to a user document. Nil fields are
// left untouched.
type UserUpdate struct {
	PasswordHash        *string
	Verify              *domain.UserVerifyStatus
	EmailVerifyToken    *string
	ForgotPasswordToken *string
	RestrictedCircle    *[]string
}

// UserRepository handles user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) error
	// UpdateReturning applies upd and returns the post-update document in a
	// single storage round trip.
	UpdateReturning(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
}
