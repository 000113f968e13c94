package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/freelancer-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures credential-store operations needed by the auth core.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// MarkEmailVerified sets email_verified for the user if it is still unset.
	MarkEmailVerified(ctx context.Context, userID string, at time.Time) error
}

// VerificationTokenStore captures the verification token ledger.
type VerificationTokenStore interface {
	// ReplaceVerificationToken deletes every token issued for token.Identifier
	// and inserts token, in one transaction.
	ReplaceVerificationToken(ctx context.Context, token models.VerificationToken) error
	FindVerificationToken(ctx context.Context, token string) (models.VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, identifier, token string) error
	ListVerificationTokens(ctx context.Context, identifier string) ([]models.VerificationToken, error)
}

// Store is a full persistence backend.
type Store interface {
	UserStore
	VerificationTokenStore
	Ping(ctx context.Context) error
	Close()
}
