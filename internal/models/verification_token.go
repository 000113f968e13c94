package models

import "time"

// VerificationToken is a single-use proof of control over an email address.
// Identifier holds the email the token was issued for.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"-"`
	Expires    time.Time `json:"expires"`
}

// ExpiredAt reports whether the token is no longer usable at now.
// A token expiring exactly at now counts as expired.
func (t VerificationToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.Expires)
}
