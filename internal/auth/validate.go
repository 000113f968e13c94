package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/freelancer-be/internal/models/dto"
)

const (
	nameMinLen     = 2
	nameMaxLen     = 100
	passwordMinLen = 6
	passwordMaxLen = 100
)

// NormalizeEmail trims and lower-cases an address for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validateCredentials(req dto.LoginRequest) (dto.LoginRequest, bool) {
	out := dto.LoginRequest{Email: NormalizeEmail(req.Email), Password: req.Password}
	if !validEmail(out.Email) || out.Password == "" {
		return dto.LoginRequest{}, false
	}
	return out, true
}

func validateRegistration(req dto.RegisterRequest) (dto.RegisterRequest, map[string]string) {
	out := dto.RegisterRequest{
		Name:            strings.TrimSpace(req.Name),
		Email:           NormalizeEmail(req.Email),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	fields := map[string]string{}

	if n := utf8.RuneCountInString(out.Name); n < nameMinLen || n > nameMaxLen {
		fields["name"] = "Name must be between 2 and 100 characters"
	}
	if !validEmail(out.Email) {
		fields["email"] = "Invalid email address"
	}
	if n := utf8.RuneCountInString(out.Password); n < passwordMinLen || n > passwordMaxLen {
		fields["password"] = "Password must be between 6 and 100 characters"
	}
	if out.Password != out.ConfirmPassword {
		fields["confirmPassword"] = "Passwords do not match"
	}
	if len(fields) > 0 {
		return dto.RegisterRequest{}, fields
	}
	return out, nil
}
