package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// UserStore persists user accounts.
// Backed by SQLite (users.db).
type UserStore interface {
	// Get retrieves an account by username. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, username string) (*domain.UserAccount, error)

	// Create inserts an account. Returns domain.ErrAlreadyExists on a duplicate username.
	Create(ctx context.Context, user *domain.UserAccount) error

	// TouchLastLogin records a successful validation.
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error

	// List returns all accounts ordered by creation time, newest first.
	List(ctx context.Context) ([]domain.UserAccount, error)
}
