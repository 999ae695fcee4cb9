package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// BackupService mirrors the local stores to remote object storage.
type BackupService interface {
	// Enabled reports whether a remote store is configured.
	Enabled() bool

	// Info describes the remote target and the local files it mirrors.
	Info() domain.BackupInfo

	// Backup uploads every local store file that exists.
	Backup(ctx context.Context) (*domain.SyncReport, error)

	// Restore downloads every store file that is missing locally.
	Restore(ctx context.Context) (*domain.SyncReport, error)

	// Sync is a best-effort backup whose failures are only logged.
	// Mutations use the outbox worker instead of calling it inline.
	Sync(ctx context.Context)
}
