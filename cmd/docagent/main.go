// Command docagent is a local assistant over PDF documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docagent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docagent/internal/adapters/driven/extractor/pdf"
	"github.com/custodia-labs/docagent/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/docagent/internal/adapters/driven/objectstore/s3"
	"github.com/custodia-labs/docagent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docagent/internal/adapters/driving/cli"
	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/services"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Config keys read at startup.
const (
	configDataDir = "storage.data_dir"
	configTopK    = "search.top_k"
)

func main() {
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetFactory(buildServices)

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

// buildServices wires adapters into services. Missing local stores are
// restored from the remote before they are opened.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = cfg.GetString(configDataDir)
	}
	if dataDir == "" {
		if dataDir, err = sqlite.DefaultDataDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	logger.Debug("data directory: %s", dataDir)

	backup := newBackupService(cfg, sqlite.Files(dataDir))

	var restored *domain.SyncReport
	if backup.Enabled() {
		logger.Section("Restore")
		if restored, err = backup.Restore(ctx); err != nil {
			logger.Warn("restore: %v", err)
		}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	if !store.FTSAvailable() {
		logger.Warn("full-text index unavailable; search falls back to substring matching")
	}

	worker := services.NewBackupWorker(backup, services.DefaultWorkerOptions())
	var notifier services.Notifier
	if backup.Enabled() {
		notifier = worker
	}

	search := services.NewSearchService(store.SearchBackend(), store.FallbackBackend())
	search.SetDefaultTopK(cfg.GetInt(configTopK))

	conversations := services.NewConversationService(store.ConversationStore(), notifier)

	assistant := services.NewAssistantService(conversations, search, newAnswerer(cfg))
	assistant.SetTopK(cfg.GetInt(configTopK))

	auth := services.NewAuthService(store.UserStore(), notifier, services.AuthOptionsFromConfig(cfg))
	if err := auth.Bootstrap(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	s := &cli.Services{
		Documents:     services.NewDocumentService(store.DocumentStore(), pdf.NewExtractor(), notifier),
		Search:        search,
		Conversations: conversations,
		Assistant:     assistant,
		Auth:          auth,
		Backup:        backup,
		Config:        cfg,
		RestoreReport: restored,
		Close:         store.Close,
	}
	if backup.Enabled() {
		// Independent of the command context so Flush can still drain
		// after an interrupt.
		worker.Start(context.Background())
		s.Worker = worker
	}
	return s, nil
}

func newBackupService(cfg driven.ConfigStore, files []domain.StoreFile) *services.BackupService {
	bc := services.ResolveBackupConfig(cfg, os.Getenv)
	opts := services.BackupOptions{
		Prefix:      bc.Prefix,
		Target:      bc.Target(),
		Timeout:     bc.Timeout,
		Snapshotter: sqlite.Snapshotter{},
	}

	if !bc.Complete() {
		logger.Debug("backup disabled: endpoint, bucket, access key and secret key are required")
		return services.NewBackupService(nil, files, opts)
	}

	remote, err := s3.New(s3.Config{
		Endpoint:  bc.Endpoint,
		Bucket:    bc.Bucket,
		AccessKey: bc.AccessKey,
		SecretKey: bc.SecretKey,
		Region:    bc.Region,
		UseSSL:    bc.UseSSL,
	})
	if err != nil {
		logger.Warn("backup disabled: %v", err)
		return services.NewBackupService(nil, files, opts)
	}
	return services.NewBackupService(remote, files, opts)
}

// newAnswerer returns nil when no API key is configured; the assistant
// then answers with the raw excerpts.
func newAnswerer(cfg driven.ConfigStore) driven.Answerer {
	a, err := anthropic.NewAnswerer(anthropic.ConfigFromStore(cfg, os.Getenv))
	if err != nil {
		logger.Debug("no language model: %v", err)
		return nil
	}
	return a
}
