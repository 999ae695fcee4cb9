package domain

import "time"

// Document represents an ingested PDF file.
// A document is created once per distinct SourcePath and never updated.
type Document struct {
	// ID is the store-assigned identifier.
	ID int64

	// Filename is the base name of the source file.
	Filename string

	// SourcePath is the exact path the file was ingested from (unique).
	SourcePath string

	// PageCount is the number of pages reported by the extractor.
	PageCount int

	// AddedAt is when the document was ingested (UTC).
	AddedAt time.Time
}

// Chunk represents a searchable window of a document's text.
type Chunk struct {
	// ID is the store-assigned identifier. It also keys the index entry.
	ID int64

	// DocumentID links to the parent Document.
	DocumentID int64

	// Ordinal is the 0-based position within the document.
	Ordinal int

	// Text is the trimmed, non-empty window content.
	Text string
}

// FileFailure records a file that could not be ingested.
type FileFailure struct {
	// Path is the file that failed.
	Path string

	// Err is the reason.
	Err error
}

// IngestReport summarises one folder ingestion run.
type IngestReport struct {
	// DocumentsAdded is the number of new documents committed.
	DocumentsAdded int

	// ChunksAdded is the number of new chunks committed.
	ChunksAdded int

	// Skipped counts files already known or with no extractable text.
	Skipped int

	// Failures lists files whose extraction failed.
	Failures []FileFailure
}
