package auth

import (
	"errors"
	"fmt"
)

// Kind enumerates every failure the authentication core reports.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentialsFormat
	KindNoUserFound
	KindIncorrectPassword
	KindEmailNotVerified
	KindTokenNotFound
	KindTokenExpired
	KindAlreadyVerified
	KindUserAlreadyExists
	KindEmailDeliveryFailed
)

// Category groups kinds the way callers present them.
type Category int

const (
	CategoryInternal Category = iota
	CategoryValidation
	CategoryAuthentication
	CategoryToken
	CategoryDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindInvalidCredentialsFormat:
		return "InvalidCredentialsFormat"
	case KindNoUserFound:
		return "NoUserFound"
	case KindIncorrectPassword:
		return "IncorrectPassword"
	case KindEmailNotVerified:
		return "EmailNotVerified"
	case KindTokenNotFound:
		return "TokenNotFound"
	case KindTokenExpired:
		return "TokenExpired"
	case KindAlreadyVerified:
		return "AlreadyVerified"
	case KindUserAlreadyExists:
		return "UserAlreadyExists"
	case KindEmailDeliveryFailed:
		return "EmailDeliveryFailed"
	default:
		return "Internal"
	}
}

// Category returns the presentation group of k.
func (k Kind) Category() Category {
	switch k {
	case KindValidation, KindInvalidCredentialsFormat, KindUserAlreadyExists:
		return CategoryValidation
	case KindNoUserFound, KindIncorrectPassword, KindEmailNotVerified:
		return CategoryAuthentication
	case KindTokenNotFound, KindTokenExpired, KindAlreadyVerified:
		return CategoryToken
	case KindEmailDeliveryFailed:
		return CategoryDelivery
	default:
		return CategoryInternal
	}
}

// Message is the user-facing text for k. NoUserFound and IncorrectPassword
// share one message so the response does not reveal which accounts exist.
func (k Kind) Message() string {
	switch k {
	case KindValidation:
		return "Invalid fields"
	case KindInvalidCredentialsFormat:
		return "Invalid credentials format"
	case KindNoUserFound, KindIncorrectPassword:
		return "Invalid email or password"
	case KindEmailNotVerified:
		return "Email not verified. A new verification link has been sent to your inbox."
	case KindTokenNotFound:
		return "Token not found"
	case KindTokenExpired:
		return "token expired"
	case KindAlreadyVerified:
		return "email already verified"
	case KindUserAlreadyExists:
		return "User already exists"
	case KindEmailDeliveryFailed:
		return "We could not send the verification email. Please contact support."
	default:
		return "Something went wrong"
	}
}

// Error is the tagged failure returned by Service operations.
type Error struct {
	Kind Kind
	// Fields carries per-field messages for KindValidation.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, &Error{Kind: KindTokenExpired}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind of err; errors that did not originate here are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns field-level validation messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
