package model

import "time"

// PasswordResetToken is an opaque single-use token issued by the password reset flow.
// It references the account by email only.
type PasswordResetToken struct {
	ID         int64
	Email      string
	Token      string
	Expiration time.Time
}

// Expired reports whether the token can no longer be used at now.
// A token expiring exactly at now is expired.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.Expiration)
}
