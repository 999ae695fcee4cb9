package mcp

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

type mockSearchService struct {
	results []domain.SearchResult
	err     error
	mode    domain.SearchMode

	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotLimit = topK
	return m.results, m.err
}

func (m *mockSearchService) Mode() domain.SearchMode {
	if m.mode == "" {
		return domain.SearchModeRanked
	}
	return m.mode
}

type mockAssistantService struct {
	answer *domain.Answer
	err    error

	gotConversation int64
	gotQuestion     string
}

func (m *mockAssistantService) Ask(_ context.Context, conversationID int64, question string) (*domain.Answer, error) {
	m.gotConversation = conversationID
	m.gotQuestion = question
	return m.answer, m.err
}

type mockDocumentService struct {
	documents []domain.Document
	chunks    map[int64][]domain.Chunk
	err       error
}

func (m *mockDocumentService) IngestFolder(_ context.Context, _ string) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id int64) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.documents {
		if m.documents[i].ID == id {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Chunks(_ context.Context, documentID int64) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks, ok := m.chunks[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}
