package driven

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite (documents.db).
type DocumentStore interface {
	// HasSourcePath reports whether a document was already ingested from path.
	HasSourcePath(ctx context.Context, path string) (bool, error)

	// AddDocument inserts the document, one chunk per text (ordinal = index)
	// and an index entry per chunk as a single atomic unit. The document's
	// ID and the returned chunks carry the assigned identifiers.
	AddDocument(ctx context.Context, doc *domain.Document, texts []string) ([]domain.Chunk, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// ListDocuments returns all documents ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetChunks retrieves all chunks for a document ordered by ordinal.
	GetChunks(ctx context.Context, documentID int64) ([]domain.Chunk, error)

	// Counts returns the number of documents and chunks.
	Counts(ctx context.Context) (documents, chunks int, err error)
}
