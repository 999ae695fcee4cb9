package driven

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// SearchBackend retrieves passages for a query.
// Two variants exist: ranked (FTS5 BM25) and substring (unranked fallback).
type SearchBackend interface {
	// Mode identifies the backend variant.
	Mode() domain.SearchMode

	// Search returns at most limit results, best first.
	// Ranked results are ordered by ascending BM25 cost.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
