package models

import "time"

// User captures application-facing fields for an account in the credential store.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  *string    `json:"-"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	Role          Role       `json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with credentials.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsVerified reports whether the email address has been confirmed.
func (u User) IsVerified() bool {
	return u.EmailVerified != nil
}
