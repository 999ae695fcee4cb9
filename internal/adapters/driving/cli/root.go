// Package cli implements the docagent command line.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// flushTimeout bounds how long a command waits for pending backups on exit.
const flushTimeout = 30 * time.Second

// annotationStandalone marks commands that run without the services.
const annotationStandalone = "standalone"

// Options are the global flag values handed to the Factory.
type Options struct {
	DataDir string
	Verbose bool
}

// BackupWorker is the part of the backup worker the CLI drives on exit.
type BackupWorker interface {
	Flush(ctx context.Context) error
	Stop()
}

// Services holds everything the commands call into.
type Services struct {
	Documents     driving.DocumentService
	Search        driving.SearchService
	Conversations driving.ConversationService
	Assistant     driving.AssistantService
	Auth          driving.AuthService
	Backup        driving.BackupService
	Config        driven.ConfigStore
	Worker        BackupWorker

	// RestoreReport is the result of the restore run at startup, if any.
	RestoreReport *domain.SyncReport

	// Close releases the stores.
	Close func() error
}

// Factory builds the services once flags are parsed.
type Factory func(ctx context.Context, opts Options) (*Services, error)

var (
	version = "dev"

	verbose bool
	dataDir string

	factory Factory
	current *Services

	documentService     driving.DocumentService
	searchService       driving.SearchService
	conversationService driving.ConversationService
	assistantService    driving.AssistantService
	authService         driving.AuthService
	backupService       driving.BackupService
	configStore         driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "docagent",
	Short: "Local assistant over your PDF documents",
	Long: `docagent ingests PDF folders into a local full-text index, answers
questions from the most relevant passages, and keeps conversations.

Local stores can be mirrored to an S3-compatible bucket so an ephemeral
machine picks up where the last one left off.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the local stores")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetFactory registers the service constructor used before each command.
func SetFactory(f Factory) {
	factory = f
}

// SetServices installs services directly, bypassing the Factory.
func SetServices(s *Services) {
	current = s
	if s == nil {
		s = &Services{}
	}
	documentService = s.Documents
	searchService = s.Search
	conversationService = s.Conversations
	assistantService = s.Assistant
	authService = s.Auth
	backupService = s.Backup
	configStore = s.Config
}

// Execute runs the root command, then flushes pending backups and closes
// the stores.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	shutdown()
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if factory == nil || current != nil || cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	s, err := factory(cmd.Context(), Options{DataDir: dataDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

func shutdown() {
	if current == nil {
		return
	}

	if current.Worker != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := current.Worker.Flush(ctx); err != nil {
			logger.Warn("backup did not finish before exit: %v", err)
		}
		cancel()
		current.Worker.Stop()
	}

	if current.Close != nil {
		if err := current.Close(); err != nil {
			logger.Error("close stores: %v", err)
		}
	}
	SetServices(nil)
}
