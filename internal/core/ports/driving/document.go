package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// DocumentService ingests and lists documents.
type DocumentService interface {
	// IngestFolder ingests every PDF under root that is not already known.
	IngestFolder(ctx context.Context, root string) (*domain.IngestReport, error)

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// Chunks returns a document's chunks in ordinal order.
	Chunks(ctx context.Context, documentID int64) ([]domain.Chunk, error)
}
