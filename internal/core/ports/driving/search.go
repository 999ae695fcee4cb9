package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// SearchService provides passage retrieval to external actors.
type SearchService interface {
	// Search returns at most topK passages for query, best first.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// Mode reports the backend selected at construction.
	Mode() domain.SearchMode
}
