package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// AuthService gates access to the assistant.
type AuthService interface {
	// Bootstrap ensures the default administrator account exists.
	Bootstrap(ctx context.Context) error

	// Validate checks credentials and returns the established session.
	Validate(ctx context.Context, username, password string) (*domain.Session, error)

	// CreateUser adds an account. The session must be an administrator.
	CreateUser(ctx context.Context, session *domain.Session, user domain.NewUser) (*domain.UserAccount, error)

	// ListUsers returns all accounts newest first. The session must be an administrator.
	ListUsers(ctx context.Context, session *domain.Session) ([]domain.UserAccount, error)
}
