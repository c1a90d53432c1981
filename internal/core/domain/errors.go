package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrEmailNotFound    = errors.New("email does not exist")
	ErrWrongCredentials = errors.New("email or password is incorrect")
	ErrWrongOldPassword = errors.New("old password is incorrect")
	ErrNotVerified      = errors.New("user has not verified email")
	ErrBanned           = errors.New("user is banned")

	ErrTweetNotFound  = errors.New("tweet not found")
	ErrTweetNotPublic = errors.New("tweet is not public")
	ErrLoginRequired  = errors.New("you must be logged in to view this tweet")

	ErrUnverifiedFederatedEmail = errors.New("federated email is not verified")
	ErrTooManyRequests          = errors.New("please wait before requesting again")
)

// AuthErrorKind discriminates token verification failures so that the HTTP
// adapter can map them exhaustively instead of matching on message strings.
type AuthErrorKind int

const (
	// TokenMissing: no credential was presented at all.
	TokenMissing AuthErrorKind = iota
	// TokenMalformed: wrong scheme or structurally unparsable token.
	TokenMalformed
	// TokenInvalid: bad signature or elapsed expiry.
	TokenInvalid
	// TokenRevoked: signature verifies but server-side state rejects it
	// (rotated/logged-out refresh token, superseded forgot-password token).
	TokenRevoked
)

// AuthError is a tagged token-verification failure. Message carries the
// underlying verifier detail so clients can distinguish "log in again" from
// "insufficient privilege".
type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NewAuthError builds an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind, msg string) *AuthError {
	return &AuthError{Kind: kind, Message: msg}
}

// AsAuthError unwraps err to an *AuthError when it is one.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
