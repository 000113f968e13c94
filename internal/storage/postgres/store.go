package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/freelancer-be/internal/models"
	"github.com/hongminglow/freelancer-be/internal/storage"
	"github.com/hongminglow/freelancer-be/internal/storage/postgres/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users and verification tokens.
type Store struct {
	pool *pgxpool.Pool
}

var shared struct {
	mu    sync.Mutex
	store *Store
}

// Shared returns the process-wide Store, connecting on first use.
// A failed connection attempt is not cached, so a later call retries.
func Shared(ctx context.Context, databaseURL string) (*Store, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.store != nil {
		return shared.store, nil
	}
	s, err := NewStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	shared.store = s
	return s, nil
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (id, name, email, password_hash, email_verified, role, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	RETURNING id, name, email, password_hash, email_verified, role, created_at, updated_at;
	`
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.EmailVerified, string(user.Role), now)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, name, email, password_hash, email_verified, role, created_at, updated_at
	FROM users
	WHERE email = $1;
	`
	row := s.pool.QueryRow(ctx, query, strings.TrimSpace(email))
	return scanUser(row)
}

// MarkEmailVerified records the verification time once. It returns storage.ErrNotFound
// when no unverified user has that id.
func (s *Store) MarkEmailVerified(ctx context.Context, userID string, at time.Time) error {
	const query = `
	UPDATE users SET email_verified = $2, updated_at = $2
	WHERE id = $1 AND email_verified IS NULL;
	`
	tag, err := s.pool.Exec(ctx, query, userID, at.UTC())
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceVerificationToken supersedes every token of the identifier with token.
func (s *Store) ReplaceVerificationToken(ctx context.Context, token models.VerificationToken) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM verification_tokens WHERE identifier = $1;`, token.Identifier); err != nil {
		return fmt.Errorf("delete previous tokens: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO verification_tokens (identifier, token, expires) VALUES ($1, $2, $3);`,
		token.Identifier, token.Token, token.Expires.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FindVerificationToken looks a token up by its opaque value.
func (s *Store) FindVerificationToken(ctx context.Context, token string) (models.VerificationToken, error) {
	const query = `SELECT identifier, token, expires FROM verification_tokens WHERE token = $1;`
	var vt models.VerificationToken
	if err := s.pool.QueryRow(ctx, query, token).Scan(&vt.Identifier, &vt.Token, &vt.Expires); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VerificationToken{}, storage.ErrNotFound
		}
		return models.VerificationToken{}, fmt.Errorf("find token: %w", err)
	}
	return vt, nil
}

// DeleteVerificationToken removes a token by its composite key.
func (s *Store) DeleteVerificationToken(ctx context.Context, identifier, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE identifier = $1 AND token = $2;`, identifier, token)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListVerificationTokens returns every token issued for identifier.
func (s *Store) ListVerificationTokens(ctx context.Context, identifier string) ([]models.VerificationToken, error) {
	rows, err := s.pool.Query(ctx, `SELECT identifier, token, expires FROM verification_tokens WHERE identifier = $1 ORDER BY expires;`, identifier)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var out []models.VerificationToken
	for rows.Next() {
		var vt models.VerificationToken
		if err := rows.Scan(&vt.Identifier, &vt.Token, &vt.Expires); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.EmailVerified, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	return user, nil
}
