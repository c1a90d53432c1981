package domain

import "time"

// TokenKind identifies the purpose a signed token was minted for. Each kind
// is signed and verified with its own secret, so a token of one kind can
// never verify in another kind's context regardless of the embedded value.
type TokenKind int

const (
	KindAccessToken TokenKind = iota
	KindRefreshToken
	KindForgotPasswordToken
	KindEmailVerifyToken
)

func (k TokenKind) String() string {
	switch k {
	case KindAccessToken:
		return "access"
	case KindRefreshToken:
		return "refresh"
	case KindForgotPasswordToken:
		return "forgot_password"
	case KindEmailVerifyToken:
		return "email_verify"
	default:
		return "unknown"
	}
}

// TokenClaims is the payload carried by every signed token. Verify is a
// snapshot of the user's verification status at issuance time.
type TokenClaims struct {
	UserID    string
	Kind      TokenKind
	Verify    UserVerifyStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is an access/refresh credential pair issued for one session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken is a persisted refresh credential. Its presence in the store
// is what makes the token valid: a structurally valid token that has been
// deleted (logout, rotation) must be rejected.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	CreatedAt time.Time
}
