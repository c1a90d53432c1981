package domain

import "time"

// UserVerifyStatus tracks the email-verification state of an account.
type UserVerifyStatus int

const (
	VerifyStatusUnverified UserVerifyStatus = iota
	VerifyStatusVerified
	VerifyStatusBanned
)

// User models an account in the system.
//
// EmailVerifyToken and ForgotPasswordToken hold the most recently issued
// token of their kind; an empty string means none is pending. Both are
// single-use: consumption clears the field, and a presented token must equal
// the stored value exactly even when its signature still verifies.
type User struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	PasswordHash        string           `json:"-"`
	Verify              UserVerifyStatus `json:"verify"`
	EmailVerifyToken    string           `json:"-"`
	ForgotPasswordToken string           `json:"-"`
	// RestrictedCircle is the allow-list of user ids permitted to read this
	// user's circle-only tweets. Membership is checked live at read time.
	RestrictedCircle []string  `json:"restricted_circle,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InCircle reports whether viewerID is in the user's restricted circle.
func (u *User) InCircle(viewerID string) bool {
	for _, id := range u.RestrictedCircle {
		if id == viewerID {
			return true
		}
	}
	return false
}
