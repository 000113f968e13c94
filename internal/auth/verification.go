package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// VerificationTokenLength is the length of every issued verification token.
const VerificationTokenLength = 32

// NewVerificationToken returns a random, URL-safe token of VerificationTokenLength
// hex characters drawn from a version 4 UUID.
func NewVerificationToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// VerificationLink embeds token into the callback URL base.
func VerificationLink(base, token string) string {
	return base + "?" + url.Values{"token": {token}}.Encode()
}
