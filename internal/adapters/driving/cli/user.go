package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/logger"
)

var timeNow = time.Now

var (
	userActor  string
	userEmail  string
	userMonths int
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Check a username and password",
	Long: `Validates the credentials and records the login time.

The password is read from $DOCAGENT_PASSWORD when set, otherwise prompted.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts (administrator only)",
	Long: `Create and list user accounts. Every subcommand authenticates the
acting account given by --as; only the administrator may proceed.`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user account",
	Long: `Creates an active account valid for --months months.

The acting password comes from $DOCAGENT_PASSWORD and the new account's
password from $DOCAGENT_NEW_PASSWORD; each is prompted when unset.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserCreate,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

func init() {
	userCmd.PersistentFlags().StringVar(&userActor, "as", domain.DefaultAdminUsername, "acting administrator")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().IntVar(&userMonths, "months", 12, "validity in months")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(userCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authenticate(cmd, args[0])
	if err != nil {
		return err
	}

	role := "user"
	if session.Admin {
		role = "administrator"
	}
	cmd.Printf("Logged in as %s (%s).\n", session.Username, role)
	return nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authenticate(cmd, userActor)
	if err != nil {
		return err
	}

	password, err := readSecret(cmd, "New password for "+args[0]+": ", EnvNewPassword)
	if err != nil {
		return err
	}

	user, err := authService.CreateUser(cmd.Context(), session, domain.NewUser{
		Username:       args[0],
		Password:       password,
		Email:          userEmail,
		ValidityMonths: userMonths,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	cmd.Printf("Created user %s", user.Username)
	if user.SubscriptionExpiresAt != nil {
		cmd.Printf(" (expires %s)", user.SubscriptionExpiresAt.Local().Format(timeLayout))
	}
	cmd.Println()
	return nil
}

func runUserList(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authenticate(cmd, userActor)
	if err != nil {
		return err
	}

	users, err := authService.ListUsers(cmd.Context(), session)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for i := range users {
		u := &users[i]
		status := "active"
		switch {
		case !u.Active:
			status = "inactive"
		case u.IsExpired(timeNow()):
			status = "expired"
		}
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Local().Format(timeLayout)
		}
		cmd.Printf("  %-20s %-8s last login %s", u.Username, status, lastLogin)
		if u.Email != "" {
			cmd.Printf("  <%s>", u.Email)
		}
		cmd.Println()
	}
	cmd.Printf("\nTotal: %d users\n", len(users))
	return nil
}

// authenticate validates username with a password from the environment or
// a prompt. Every failure reason is reported with the same message.
func authenticate(cmd *cobra.Command, username string) (*domain.Session, error) {
	password, err := readSecret(cmd, "Password for "+username+": ", EnvPassword)
	if err != nil {
		return nil, err
	}
	return validate(cmd.Context(), username, password)
}

func validate(ctx context.Context, username, password string) (*domain.Session, error) {
	session, err := authService.Validate(ctx, username, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			logger.Debug("%v", authErr)
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return session, nil
}
