package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// userStore implements driven.UserStore.
type userStore struct {
	db *sql.DB
}

var _ driven.UserStore = (*userStore)(nil)

const userColumns = `id, username, password_hash, email, created_at,
	last_login_at, active, subscription_expires_at`

// Get retrieves an account by username.
func (s *userStore) Get(ctx context.Context, username string) (*domain.UserAccount, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanning user: %v", domain.ErrStorage, err)
	}
	return u, nil
}

// Create inserts an account and sets its ID.
func (s *userStore) Create(ctx context.Context, u *domain.UserAccount) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.CreatedAt = u.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, email, created_at,
			last_login_at, active, subscription_expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.Username, u.PasswordHash, u.Email, u.CreatedAt,
		nullTime(u.LastLoginAt), u.Active, nullTime(u.SubscriptionExpiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("%w: creating user: %v", domain.ErrStorage, err)
	}

	if u.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("%w: reading user id: %v", domain.ErrStorage, err)
	}
	return nil
}

// TouchLastLogin sets last_login_at for the account.
func (s *userStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("%w: updating last login: %v", domain.ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all accounts newest first.
func (s *userStore) List(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: querying users: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var users []domain.UserAccount //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", domain.ErrStorage, err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.UserAccount, error) {
	var u domain.UserAccount
	var lastLogin, expires sql.NullTime

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt,
		&lastLogin, &u.Active, &expires)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = u.CreatedAt.UTC()
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLoginAt = &t
	}
	if expires.Valid {
		t := expires.Time.UTC()
		u.SubscriptionExpiresAt = &t
	}
	return &u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
