package domain

import "time"

// StoreFile names one of the local persistent stores mirrored by backup.
type StoreFile struct {
	// Name is a short label ("documents", "chat", "users").
	Name string

	// Path is the local file path.
	Path string
}

// FileOutcome describes what happened to one store file during backup or restore.
type FileOutcome string

// File outcomes.
const (
	OutcomeUploaded      FileOutcome = "uploaded"
	OutcomeRestored      FileOutcome = "restored"
	OutcomeSkippedLocal  FileOutcome = "present_locally"
	OutcomeMissingLocal  FileOutcome = "missing_locally"
	OutcomeMissingRemote FileOutcome = "missing_remote"
	OutcomeFailed        FileOutcome = "failed"
)

// FileResult is the per-file outcome of a sync operation.
type FileResult struct {
	File    StoreFile
	Key     string
	Outcome FileOutcome
	Err     error
}

// SyncReport summarises a backup or restore run.
type SyncReport struct {
	StartedAt time.Time
	EndedAt   time.Time
	Files     []FileResult
}

// Failed returns the number of files that failed.
func (r *SyncReport) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == OutcomeFailed {
			n++
		}
	}
	return n
}

// SyncIntent is a queued request to push local stores to the remote.
type SyncIntent struct {
	ID         string
	Reason     string
	EnqueuedAt time.Time
}

// BackupInfo describes the backup configuration for display.
type BackupInfo struct {
	Enabled bool
	// Target is a human-readable remote location such as "s3://bucket/prefix/".
	Target string
	Prefix string
	Files  []StoreFile
}
