package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DefaultAdminUsername is the well-known identity created on first run.
const DefaultAdminUsername = "admin"

// BootstrapValidity is how long the bootstrap account stays valid.
const BootstrapValidity = 365 * 24 * time.Hour

// UserAccount is a credential record gating access to the assistant.
type UserAccount struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time

	// LastLoginAt is nil until the first successful validation.
	LastLoginAt *time.Time

	// Active disables validation when false.
	Active bool

	// SubscriptionExpiresAt is nil for accounts that never expire.
	SubscriptionExpiresAt *time.Time
}

// IsExpired returns true if the subscription has a past expiry.
func (u *UserAccount) IsExpired(now time.Time) bool {
	return u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.Before(now)
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Username       string `validate:"required,max=64"`
	Password       string `validate:"required"`
	Email          string `validate:"omitempty,email"`
	ValidityMonths int    `validate:"min=1,max=120"`
}

var validate = validator.New()

// Validate checks the fields. Failures wrap ErrInvalidInput.
func (u NewUser) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.ContainsFunc(u.Username, unicode.IsSpace) {
		return fmt.Errorf("%w: username must not contain spaces", ErrInvalidInput)
	}
	return nil
}

// Session is the capability established by a successful validation.
// Privileged operations take it explicitly instead of reading ambient state.
type Session struct {
	Username string
	Admin    bool
}

// AuthReason distinguishes why validation failed.
type AuthReason string

// Authentication failure reasons.
const (
	AuthNotFound    AuthReason = "not_found"
	AuthBadPassword AuthReason = "bad_password"
	AuthInactive    AuthReason = "inactive"
	AuthExpired     AuthReason = "expired"
)

// ErrInvalidCredentials is the single user-facing authentication failure.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthError is returned by validation. It matches ErrInvalidCredentials via
// errors.Is so callers can report one generic message, while Reason stays
// available for logs.
type AuthError struct {
	Username string
	Reason   AuthReason
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %q: %s", e.Username, e.Reason)
}

// Is reports whether target is ErrInvalidCredentials.
func (e *AuthError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
