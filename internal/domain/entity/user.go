package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
//
// Activation state: a non-nil ActivationToken is always paired with a
// non-nil ActivationExpires. Once EmailVerified is true both fields are
// cleared and never honored again.
type User struct {
	ID                string
	Email             string
	Name              string
	AccountType       string
	PasswordHash      string
	EmailVerified     bool
	ActivationToken   *string
	ActivationExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TokenValidAt reports whether the stored activation token matches and is
// unexpired at the given instant.
func (u *User) TokenValidAt(token string, now time.Time) bool {
	if u.EmailVerified || u.ActivationToken == nil || u.ActivationExpires == nil {
		return false
	}
	if *u.ActivationToken == "" || *u.ActivationToken != token {
		return false
	}
	return now.Before(*u.ActivationExpires)
}
