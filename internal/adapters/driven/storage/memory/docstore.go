package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It also serves substring search over its chunks.
type DocumentStore struct {
	mu        sync.RWMutex
	documents []domain.Document
	chunks    []domain.Chunk
	nextChunk int64

	// FailAdd, when set, is returned by AddDocument before any change.
	FailAdd error
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// HasSourcePath reports whether a document with this path exists.
func (s *DocumentStore) HasSourcePath(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.documents {
		if d.SourcePath == path {
			return true, nil
		}
	}
	return false, nil
}

// AddDocument stores the document and its chunks atomically.
func (s *DocumentStore) AddDocument(_ context.Context, doc *domain.Document, texts []string) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAdd != nil {
		return nil, s.FailAdd
	}
	for _, d := range s.documents {
		if d.SourcePath == doc.SourcePath {
			return nil, domain.ErrAlreadyExists
		}
	}

	doc.ID = int64(len(s.documents) + 1)
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now().UTC()
	}
	s.documents = append(s.documents, *doc)

	added := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		s.nextChunk++
		c := domain.Chunk{ID: s.nextChunk, DocumentID: doc.ID, Ordinal: i, Text: text}
		s.chunks = append(s.chunks, c)
		added = append(added, c)
	}
	return added, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.documents {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents ordered by ID.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.documents...), nil
}

// GetChunks retrieves all chunks for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID int64) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Chunk
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Counts returns the number of documents and chunks.
func (s *DocumentStore) Counts(_ context.Context) (documents, chunks int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), len(s.chunks), nil
}

// SearchBackend returns a substring backend over this store's chunks.
func (s *DocumentStore) SearchBackend() driven.SearchBackend {
	return &substringBackend{store: s}
}

type substringBackend struct {
	store *DocumentStore
}

func (b *substringBackend) Mode() domain.SearchMode {
	return domain.SearchModeSubstring
}

func (b *substringBackend) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	needle := strings.ToLower(query)
	var results []domain.SearchResult
	for _, c := range b.store.chunks {
		if len(results) >= limit {
			break
		}
		if !strings.Contains(strings.ToLower(c.Text), needle) {
			continue
		}
		results = append(results, domain.SearchResult{
			ChunkID:    c.ID,
			ChunkText:  c.Text,
			DocumentID: c.DocumentID,
			Filename:   b.store.documents[c.DocumentID-1].Filename,
		})
	}
	return results, nil
}
