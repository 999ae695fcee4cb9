package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService retrieves passages through the backend chosen at startup.
// If the ranked index fails at runtime the service demotes itself to the
// substring backend for the rest of its life; it never switches back, so
// ranking semantics do not alternate between calls.
type SearchService struct {
	mu       sync.RWMutex
	backend  driven.SearchBackend
	fallback driven.SearchBackend
	topK     int
}

// NewSearchService creates a new search service. fallback is optional and
// only used after backend reports domain.ErrIndexUnavailable.
func NewSearchService(backend, fallback driven.SearchBackend) *SearchService {
	return &SearchService{
		backend:  backend,
		fallback: fallback,
		topK:     domain.DefaultTopK,
	}
}

// SetDefaultTopK sets the result count used when callers pass k <= 0.
func (s *SearchService) SetDefaultTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

// DefaultTopK returns the result count used when callers pass k <= 0.
func (s *SearchService) DefaultTopK() int {
	return s.topK
}

// Mode returns the active backend's mode.
func (s *SearchService) Mode() domain.SearchMode {
	return s.active().Mode()
}

func (s *SearchService) active() driven.SearchBackend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// Search returns at most topK passages for query, best first.
// A blank query returns nothing without touching storage.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	backend := s.active()
	logger.Section("Search")
	logger.Debug("query=%q topK=%d mode=%s", query, topK, backend.Mode())

	results, err := backend.Search(ctx, query, topK)
	if errors.Is(err, domain.ErrIndexUnavailable) {
		if next := s.demote(backend, err); next != nil {
			results, err = next.Search(ctx, query, topK)
		}
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("%d results", len(results))
	return results, nil
}

// demote replaces failed with the fallback backend and returns the backend
// now in use, or nil when there is nothing to fall back to.
func (s *SearchService) demote(failed driven.SearchBackend, cause error) driven.SearchBackend {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != failed {
		return s.backend
	}
	if s.fallback == nil || s.fallback.Mode() == failed.Mode() {
		return nil
	}

	logger.Warn("full-text index failed, using substring search from now on: %v", cause)
	s.backend = s.fallback
	return s.backend
}
