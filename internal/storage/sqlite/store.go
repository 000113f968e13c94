// Package sqlite implements the credential store and verification token ledger
// over an embedded SQLite database. It backs local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hongminglow/freelancer-be/internal/models"
	"github.com/hongminglow/freelancer-be/internal/storage"
	"github.com/hongminglow/freelancer-be/internal/storage/sqlite/migrations"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var _ storage.Store = (*Store)(nil)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements storage.Store over SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies bundled migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
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
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	now := time.Now().UTC().Truncate(time.Millisecond)
	var verified sql.NullInt64
	if user.EmailVerified != nil {
		verified = sql.NullInt64{Int64: toMillis(*user.EmailVerified), Valid: true}
	}
	var hash sql.NullString
	if user.PasswordHash != nil {
		hash = sql.NullString{String: *user.PasswordHash, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, hash, verified, string(user.Role), toMillis(now), toMillis(now))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, name, email, password_hash, email_verified, role, created_at, updated_at
	FROM users
	WHERE email = ?;
	`
	var (
		user                 models.User
		hash                 sql.NullString
		verified             sql.NullInt64
		role                 string
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).
		Scan(&user.ID, &user.Name, &user.Email, &hash, &verified, &role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if hash.Valid {
		user.PasswordHash = &hash.String
	}
	if verified.Valid {
		at := fromMillis(verified.Int64)
		user.EmailVerified = &at
	}
	user.Role = models.Role(role)
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

// MarkEmailVerified records the verification time once. It returns storage.ErrNotFound
// when no unverified user has that id.
func (s *Store) MarkEmailVerified(ctx context.Context, userID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email_verified = ?, updated_at = ? WHERE id = ? AND email_verified IS NULL;`,
		toMillis(at), toMillis(at), userID)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return requireAffected(res)
}

// ReplaceVerificationToken supersedes every token of the identifier with token.
func (s *Store) ReplaceVerificationToken(ctx context.Context, token models.VerificationToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE identifier = ?;`, token.Identifier); err != nil {
		return fmt.Errorf("delete previous tokens: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO verification_tokens (identifier, token, expires) VALUES (?, ?, ?);`,
		token.Identifier, token.Token, toMillis(token.Expires))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FindVerificationToken looks a token up by its opaque value.
func (s *Store) FindVerificationToken(ctx context.Context, token string) (models.VerificationToken, error) {
	var (
		vt      models.VerificationToken
		expires int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT identifier, token, expires FROM verification_tokens WHERE token = ?;`, token).
		Scan(&vt.Identifier, &vt.Token, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VerificationToken{}, storage.ErrNotFound
		}
		return models.VerificationToken{}, fmt.Errorf("find token: %w", err)
	}
	vt.Expires = fromMillis(expires)
	return vt, nil
}

// DeleteVerificationToken removes a token by its composite key.
func (s *Store) DeleteVerificationToken(ctx context.Context, identifier, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE identifier = ? AND token = ?;`, identifier, token)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return requireAffected(res)
}

// ListVerificationTokens returns every token issued for identifier.
func (s *Store) ListVerificationTokens(ctx context.Context, identifier string) ([]models.VerificationToken, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identifier, token, expires FROM verification_tokens WHERE identifier = ? ORDER BY expires;`, identifier)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var out []models.VerificationToken
	for rows.Next() {
		var (
			vt      models.VerificationToken
			expires int64
		)
		if err := rows.Scan(&vt.Identifier, &vt.Token, &expires); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		vt.Expires = fromMillis(expires)
		out = append(out, vt)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
