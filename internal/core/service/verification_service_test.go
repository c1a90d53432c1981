package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

type verifyFixture struct {
	users    *stubUserRepo
	mail     *stubMailQueue
	cooldown *stubCooldown
	auth     *AuthService
	svc      *VerificationService
}

func newVerifyFixture() *verifyFixture {
	users := newStubUserRepo()
	refresh := newStubRefreshRepo()
	mail := &stubMailQueue{}
	cooldown := newStubCooldown()
	codec := newTestCodec()
	sessions := NewSessionService(codec, refresh, zerolog.Nop())
	auth := NewAuthService(users, sessions, codec, &stubOAuthProvider{}, mail, zerolog.Nop())
	svc := NewVerificationService(users, sessions, codec, mail, cooldown, zerolog.Nop())
	return &verifyFixture{users: users, mail: mail, cooldown: cooldown, auth: auth, svc: svc}
}

func registerUnverified(t *testing.T, f *verifyFixture, email string) *domain.User {
	t.Helper()
	res, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Name:     "user",
		Email:    email,
		Password: "S3cret!pass",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return res.User
}

func TestVerificationService_VerifyEmail(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "alice@example.com")

	res, err := f.svc.VerifyEmail(context.Background(), user.EmailVerifyToken)
	if err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if res.AlreadyVerified {
		t.Fatalf("first verification must not report already verified")
	}
	if res.Pair.AccessToken == "" {
		t.Fatalf("expected a fresh pair under the verified status")
	}

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if stored.Verify != domain.VerifyStatusVerified {
		t.Fatalf("expected verified status, got %v", stored.Verify)
	}
	if stored.EmailVerifyToken != "" {
		t.Fatalf("expected stored token cleared after consumption")
	}
}

func TestVerificationService_VerifyEmail_Replay(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "bob@example.com")
	token := user.EmailVerifyToken

	if _, err := f.svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	// The signature still verifies, but the stored token is gone.
	res, err := f.svc.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("replayed VerifyEmail returned error: %v", err)
	}
	if !res.AlreadyVerified {
		t.Fatalf("expected AlreadyVerified on replay")
	}
	if res.Pair.AccessToken != "" {
		t.Fatalf("replay must not issue a new session")
	}
}

func TestVerificationService_VerifyEmail_BadToken(t *testing.T) {
	f := newVerifyFixture()

	_, err := f.svc.VerifyEmail(context.Background(), "not-a-jwt")
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenMalformed {
		t.Fatalf("expected TokenMalformed, got %v", err)
	}
}

func TestVerificationService_ResendVerifyEmail(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "carol@example.com")
	firstToken := user.EmailVerifyToken

	if err := f.svc.ResendVerifyEmail(context.Background(), user.ID); err != nil {
		t.Fatalf("ResendVerifyEmail returned error: %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if stored.EmailVerifyToken == firstToken {
		t.Fatalf("expected resend to replace the pending token")
	}
	jobs := f.mail.sent()
	if len(jobs) != 2 {
		t.Fatalf("expected registration plus resend emails, got %d", len(jobs))
	}
	if jobs[1].Token != stored.EmailVerifyToken {
		t.Fatalf("resent email carries stale token")
	}

	// The cooldown key is now held.
	if err := f.svc.ResendVerifyEmail(context.Background(), user.ID); err != domain.ErrTooManyRequests {
		t.Fatalf("expected ErrTooManyRequests within cooldown, got %v", err)
	}
}

func TestVerificationService_ResendVerifyEmail_AlreadyVerified(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "dave@example.com")
	if _, err := f.svc.VerifyEmail(context.Background(), user.EmailVerifyToken); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	sent := len(f.mail.sent())

	if err := f.svc.ResendVerifyEmail(context.Background(), user.ID); err != nil {
		t.Fatalf("resend for verified account should be a no-op, got %v", err)
	}
	if len(f.mail.sent()) != sent {
		t.Fatalf("no email expected for an already verified account")
	}
}

func TestVerificationService_ForgotPassword(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "erin@example.com")

	if err := f.svc.ForgotPassword(context.Background(), "erin@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if stored.ForgotPasswordToken == "" {
		t.Fatalf("expected recovery token on user record")
	}
	jobs := f.mail.sent()
	last := jobs[len(jobs)-1]
	if last.Kind != ports.EmailResetPassword || last.Token != stored.ForgotPasswordToken {
		t.Fatalf("expected reset email carrying the stored token, got %+v", last)
	}
}

func TestVerificationService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newVerifyFixture()

	if err := f.svc.ForgotPassword(context.Background(), "ghost@example.com"); err != domain.ErrEmailNotFound {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestVerificationService_ForgotPassword_SupersedesEarlierToken(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "frank@example.com")

	if err := f.svc.ForgotPassword(context.Background(), "frank@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	first, _ := f.users.FindByID(context.Background(), user.ID)

	// Clear the cooldown so a second request goes through.
	f.cooldown.held = map[string]bool{}
	if err := f.svc.ForgotPassword(context.Background(), "frank@example.com"); err != nil {
		t.Fatalf("second ForgotPassword returned error: %v", err)
	}

	// The first token still has a valid signature but no longer matches
	// the stored value.
	_, err := f.svc.VerifyForgotPassword(context.Background(), first.ForgotPasswordToken)
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenRevoked {
		t.Fatalf("expected TokenRevoked for superseded token, got %v", err)
	}

	second, _ := f.users.FindByID(context.Background(), user.ID)
	if _, err := f.svc.VerifyForgotPassword(context.Background(), second.ForgotPasswordToken); err != nil {
		t.Fatalf("latest token rejected: %v", err)
	}
}

func TestVerificationService_ResetPassword(t *testing.T) {
	f := newVerifyFixture()
	user := registerUnverified(t, f, "grace@example.com")

	if err := f.svc.ForgotPassword(context.Background(), "grace@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	stored, _ := f.users.FindByID(context.Background(), user.ID)
	token := stored.ForgotPasswordToken

	if err := f.svc.ResetPassword(context.Background(), token, "N3w!password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	after, _ := f.users.FindByID(context.Background(), user.ID)
	if after.ForgotPasswordToken != "" {
		t.Fatalf("expected recovery token cleared after reset")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte("N3w!password")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}

	// Single use: the consumed token fails the stored-value comparison.
	err := f.svc.ResetPassword(context.Background(), token, "Again!pass1")
	ae, ok := domain.AsAuthError(err)
	if !ok || ae.Kind != domain.TokenRevoked {
		t.Fatalf("expected TokenRevoked on reuse, got %v", err)
	}
}
