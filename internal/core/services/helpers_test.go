package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// recordingNotifier collects Notify reasons.
type recordingNotifier struct {
	mu      sync.Mutex
	reasons []string
}

func (n *recordingNotifier) Notify(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *recordingNotifier) Reasons() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.reasons...)
}

// fakeExtractor returns canned text keyed by file name.
type fakeExtractor struct {
	texts map[string]string
	fail  map[string]error
	calls []string
}

func (e *fakeExtractor) Extract(_ context.Context, path string) (string, int, error) {
	name := filepath.Base(path)
	e.calls = append(e.calls, name)
	if err, ok := e.fail[name]; ok {
		return "", 0, err
	}
	return e.texts[name], 1, nil
}

// fakeBackend is a scripted search backend.
type fakeBackend struct {
	mode    domain.SearchMode
	results []domain.SearchResult
	err     error
	calls   int
	lastK   int
}

func (b *fakeBackend) Mode() domain.SearchMode { return b.mode }

func (b *fakeBackend) Search(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
	b.calls++
	b.lastK = limit
	if b.err != nil {
		return nil, b.err
	}
	if len(b.results) > limit {
		return b.results[:limit], nil
	}
	return b.results, nil
}

// fakeAnswerer returns a fixed answer or error and records its input.
type fakeAnswerer struct {
	answer      string
	err         error
	gotQuestion string
	gotContext  string
}

func (a *fakeAnswerer) Answer(_ context.Context, question, contextText string) (string, error) {
	a.gotQuestion = question
	a.gotContext = contextText
	return a.answer, a.err
}

func (a *fakeAnswerer) ModelName() string { return "fake-model" }

var errBoom = errors.New("boom")

// writeFiles creates empty files under dir.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	}
}
