package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// Shared in-memory stubs for the service tests.

func newTestCodec() *TokenCodec {
	return NewTokenCodec(map[domain.TokenKind]KindConfig{
		domain.KindAccessToken:         {Secret: "access-secret", TTL: 15 * time.Minute},
		domain.KindRefreshToken:        {Secret: "refresh-secret", TTL: 100 * 24 * time.Hour},
		domain.KindEmailVerifyToken:    {Secret: "email-secret", TTL: 7 * 24 * time.Hour},
		domain.KindForgotPasswordToken: {Secret: "forgot-secret", TTL: 7 * 24 * time.Hour},
	})
}

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.RestrictedCircle = append([]string(nil), u.RestrictedCircle...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	applyUpdate(u, upd)
	return nil
}

func (r *stubUserRepo) UpdateReturning(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyUpdate(u, upd)
	return cloneUser(u), nil
}

func applyUpdate(u *domain.User, upd ports.UserUpdate) {
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Verify != nil {
		u.Verify = *upd.Verify
	}
	if upd.EmailVerifyToken != nil {
		u.EmailVerifyToken = *upd.EmailVerifyToken
	}
	if upd.ForgotPasswordToken != nil {
		u.ForgotPasswordToken = *upd.ForgotPasswordToken
	}
	if upd.RestrictedCircle != nil {
		u.RestrictedCircle = append([]string(nil), (*upd.RestrictedCircle)...)
	}
	u.UpdatedAt = time.Now().UTC()
}

type stubRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken

	insertErr error
	deleteErr error
}

func newStubRefreshRepo() *stubRefreshRepo {
	return &stubRefreshRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *stubRefreshRepo) Insert(_ context.Context, userID, token string) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &domain.RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *stubRefreshRepo) FindByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *stubRefreshRepo) DeleteByToken(_ context.Context, token string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *stubRefreshRepo) DeleteAllByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *stubRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type stubMailQueue struct {
	mu   sync.Mutex
	jobs []ports.EmailJob
}

func (q *stubMailQueue) Enqueue(job ports.EmailJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

func (q *stubMailQueue) sent() []ports.EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ports.EmailJob(nil), q.jobs...)
}

type stubCooldown struct {
	mu   sync.Mutex
	held map[string]bool
}

func newStubCooldown() *stubCooldown {
	return &stubCooldown{held: make(map[string]bool)}
}

func (c *stubCooldown) TryAcquire(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held[key] {
		return false, nil
	}
	c.held[key] = true
	return true, nil
}

type stubOAuthProvider struct {
	identity ports.OAuthIdentity
	err      error
}

func (p *stubOAuthProvider) ExchangeCode(_ context.Context, code string) (*ports.OAuthTokens, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &ports.OAuthTokens{AccessToken: "provider-access", IDToken: "provider-id"}, nil
}

func (p *stubOAuthProvider) FetchIdentity(_ context.Context, _ *ports.OAuthTokens) (*ports.OAuthIdentity, error) {
	if p.err != nil {
		return nil, p.err
	}
	identity := p.identity
	return &identity, nil
}

type stubTweetRepo struct {
	mu     sync.Mutex
	tweets map[string]*domain.Tweet
	nextID int
}

func newStubTweetRepo() *stubTweetRepo {
	return &stubTweetRepo{tweets: make(map[string]*domain.Tweet)}
}

func (r *stubTweetRepo) Create(_ context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *tweet
	clone.ID = fmt.Sprintf("tweet_%d", r.nextID)
	stored := clone
	r.tweets[clone.ID] = &stored
	return &clone, nil
}

func (r *stubTweetRepo) FindByID(_ context.Context, id string) (*domain.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tweets[id]
	if !ok {
		return nil, domain.ErrTweetNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTweetRepo) IncreaseViews(_ context.Context, id string, authenticated bool) (*domain.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tweets[id]
	if !ok {
		return nil, domain.ErrTweetNotFound
	}
	if authenticated {
		t.UserViews++
	} else {
		t.GuestViews++
	}
	clone := *t
	return &clone, nil
}
