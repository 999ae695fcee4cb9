package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// Configuration keys and environment variables for the bootstrap account.
const (
	ConfigAdminUsername = "auth.admin_username"
	ConfigAdminPassword = "auth.admin_password"
	EnvAdminPassword    = "DOCAGENT_ADMIN_PASSWORD"

	// DefaultAdminPassword is used when nothing else is configured.
	DefaultAdminPassword = "admin123"
)

// AuthOptions configures the bootstrap administrator.
type AuthOptions struct {
	AdminUsername string
	AdminPassword string
}

// AuthOptionsFromConfig resolves the bootstrap administrator from config,
// then the environment, then the built-in defaults.
func AuthOptionsFromConfig(cfg driven.ConfigStore) AuthOptions {
	opts := AuthOptions{AdminUsername: domain.DefaultAdminUsername}
	if cfg != nil {
		if v := cfg.GetString(ConfigAdminUsername); v != "" {
			opts.AdminUsername = v
		}
		opts.AdminPassword = cfg.GetString(ConfigAdminPassword)
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = os.Getenv(EnvAdminPassword)
	}
	return opts
}

// AuthService validates credentials and manages accounts.
type AuthService struct {
	store    driven.UserStore
	notifier Notifier
	opts     AuthOptions
	now      func() time.Time
	cost     int
	compare  func(hash, password []byte) error

	// dummyHash is compared against for unknown usernames so that a
	// missing account costs as much as a wrong password.
	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(store driven.UserStore, notifier Notifier, opts AuthOptions) *AuthService {
	if opts.AdminUsername == "" {
		opts.AdminUsername = domain.DefaultAdminUsername
	}
	return &AuthService{
		store:    store,
		notifier: notifierOrNop(notifier),
		opts:     opts,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// Bootstrap ensures the administrator account exists. It never modifies
// an existing account.
func (s *AuthService) Bootstrap(ctx context.Context) error {
	_, err := s.store.Get(ctx, s.opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	password := s.opts.AdminPassword
	if password == "" {
		password = DefaultAdminPassword
		logger.Warn("created %q with the default password; set %s or %s",
			s.opts.AdminUsername, EnvAdminPassword, ConfigAdminPassword)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	expires := now.Add(domain.BootstrapValidity)
	admin := &domain.UserAccount{
		Username:              s.opts.AdminUsername,
		PasswordHash:          hash,
		CreatedAt:             now,
		Active:                true,
		SubscriptionExpiresAt: &expires,
	}
	if err := s.store.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	s.notifier.Notify("bootstrap")
	return nil
}

// Validate checks credentials. Every failure is an *domain.AuthError that
// matches domain.ErrInvalidCredentials; the reason is for logs only.
func (s *AuthService) Validate(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.store.Get(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = s.compare(s.dummy(), []byte(password))
		return nil, s.reject(username, domain.AuthNotFound)
	}
	if err != nil {
		return nil, err
	}

	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, s.reject(username, domain.AuthBadPassword)
	}
	if !user.Active {
		return nil, s.reject(username, domain.AuthInactive)
	}

	now := s.now()
	if user.IsExpired(now) {
		return nil, s.reject(username, domain.AuthExpired)
	}

	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}

	return &domain.Session{
		Username: user.Username,
		Admin:    user.Username == s.opts.AdminUsername,
	}, nil
}

func (s *AuthService) reject(username string, reason domain.AuthReason) error {
	logger.Info("login rejected for %q: %s", username, reason)
	return &domain.AuthError{Username: username, Reason: reason}
}

// CreateUser adds an account valid for 30 days per requested month.
func (s *AuthService) CreateUser(
	ctx context.Context, session *domain.Session, nu domain.NewUser,
) (*domain.UserAccount, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := nu.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hash(nu.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.AddDate(0, 0, 30*nu.ValidityMonths)
	user := &domain.UserAccount{
		Username:              nu.Username,
		PasswordHash:          hash,
		Email:                 nu.Email,
		CreatedAt:             now,
		Active:                true,
		SubscriptionExpiresAt: &expires,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Notify("user")
	return user, nil
}

// ListUsers returns all accounts newest first.
func (s *AuthService) ListUsers(ctx context.Context, session *domain.Session) ([]domain.UserAccount, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func requireAdmin(session *domain.Session) error {
	if session == nil || !session.Admin {
		return fmt.Errorf("%w: administrator session required", domain.ErrPermissionDenied)
	}
	return nil
}

// dummy returns a hash at the service's cost that no password matches.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("docagent-unknown-user"), s.cost)
		if err != nil {
			logger.Warn("generating dummy hash: %v", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}
