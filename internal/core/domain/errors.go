package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	// Input errors are rejected synchronously and never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates text could not be extracted from a file.
	// Ingestion logs it and continues with the next file.
	ErrExtraction = errors.New("text extraction failed")

	// ErrIndexUnavailable indicates the ranked full-text index is missing
	// or failed. Search degrades to substring matching.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrStorage indicates a local store I/O failure.
	ErrStorage = errors.New("storage failure")

	// ErrRemoteUnavailable indicates the remote object store could not be reached.
	ErrRemoteUnavailable = errors.New("remote storage unavailable")

	// ErrBackupDisabled indicates remote backup is not configured for this process.
	ErrBackupDisabled = errors.New("backup not configured")

	// ErrPermissionDenied indicates the caller's session lacks the required privilege.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLLMUnavailable indicates the answering model is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
