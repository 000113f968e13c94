package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/freelancer-be/internal/config"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/models"
	"github.com/hongminglow/freelancer-be/internal/models/dto"
	"github.com/hongminglow/freelancer-be/internal/storage"
)

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}

// Service gates session issuance to verified, correctly-credentialed users
// and drives the email-verification flow.
type Service struct {
	users           storage.UserStore
	tokens          storage.VerificationTokenStore
	mailer          Mailer
	logger          logging.Logger
	verificationURL string
	tokenTTL        time.Duration
	bcryptCost      int

	now      func() time.Time
	newToken func() (string, error)
	newID    func() string
}

// NewService wires the auth core to its stores and mailer.
func NewService(users storage.UserStore, tokens storage.VerificationTokenStore, mailer Mailer, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		mailer:          mailer,
		logger:          logger.With("component", "auth"),
		verificationURL: cfg.VerificationURL(),
		tokenTTL:        cfg.VerificationTokenTTL,
		bcryptCost:      cfg.BcryptCost,
		now:             time.Now,
		newToken:        NewVerificationToken,
		newID:           uuid.NewString,
	}
}

// Authorize validates credentials and returns the user to embed in the session.
// An unverified user gets a fresh verification link and is refused.
func (s *Service) Authorize(ctx context.Context, req dto.LoginRequest) (models.User, error) {
	creds, ok := validateCredentials(req)
	if !ok {
		return models.User{}, newError(KindInvalidCredentialsFormat, nil)
	}

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, newError(KindNoUserFound, nil)
		}
		return models.User{}, newError(KindInternal, err)
	}
	if !user.HasPassword() {
		return models.User{}, newError(KindNoUserFound, nil)
	}

	match, err := ComparePassword(*user.PasswordHash, creds.Password)
	if err != nil {
		return models.User{}, newError(KindInternal, err)
	}
	if !match {
		return models.User{}, newError(KindIncorrectPassword, nil)
	}

	if !user.IsVerified() {
		if err := s.issueVerification(ctx, user.Email); err != nil {
			return models.User{}, err
		}
		return models.User{}, newError(KindEmailNotVerified, nil)
	}

	s.logger.Info(ctx, "user authorized", "user_id", user.ID)
	return user, nil
}

// CompleteVerification consumes a verification token and marks its owner verified.
func (s *Service) CompleteVerification(ctx context.Context, token string) error {
	if token == "" {
		return newError(KindTokenNotFound, nil)
	}

	vt, err := s.tokens.FindVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(KindTokenNotFound, nil)
		}
		return newError(KindInternal, err)
	}

	now := s.now()
	if vt.ExpiredAt(now) {
		return newError(KindTokenExpired, nil)
	}

	user, err := s.users.FindByEmail(ctx, vt.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The email changed after the token was issued.
			return newError(KindTokenNotFound, nil)
		}
		return newError(KindInternal, err)
	}
	if user.IsVerified() {
		return newError(KindAlreadyVerified, nil)
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID, now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(KindAlreadyVerified, nil)
		}
		return newError(KindInternal, err)
	}
	if err := s.tokens.DeleteVerificationToken(ctx, vt.Identifier, vt.Token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn(ctx, "verified email but could not delete token", "email", vt.Identifier, "error", err)
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}

// Register creates an unverified account and sends its first verification link.
// It never signs the user in. On delivery failure the account is kept and the
// returned error has KindEmailDeliveryFailed.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	input, fields := validateRegistration(req)
	if len(fields) > 0 {
		return models.User{}, &Error{Kind: KindValidation, Fields: fields}
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, newError(KindUserAlreadyExists, nil)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, newError(KindInternal, err)
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return models.User{}, newError(KindInternal, err)
	}

	created, err := s.users.CreateUser(ctx, models.User{
		ID:           s.newID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: &hash,
		Role:         models.RoleFreelancer,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, newError(KindUserAlreadyExists, nil)
		}
		return models.User{}, newError(KindInternal, err)
	}
	s.logger.Info(ctx, "user registered", "user_id", created.ID, "email", created.Email)

	if err := s.issueVerification(ctx, created.Email); err != nil {
		return created, err
	}
	return created, nil
}

// issueVerification supersedes any token for email with a new one and mails the link.
func (s *Service) issueVerification(ctx context.Context, email string) error {
	token, err := s.newToken()
	if err != nil {
		return newError(KindInternal, err)
	}

	vt := models.VerificationToken{
		Identifier: email,
		Token:      token,
		Expires:    s.now().Add(s.tokenTTL),
	}
	if err := s.tokens.ReplaceVerificationToken(ctx, vt); err != nil {
		return newError(KindInternal, err)
	}

	if err := s.mailer.SendVerification(ctx, email, VerificationLink(s.verificationURL, token)); err != nil {
		s.logger.Error(ctx, "send verification email", "email", email, "error", err)
		return newError(KindEmailDeliveryFailed, err)
	}
	s.logger.Info(ctx, "verification email sent", "email", email)
	return nil
}
