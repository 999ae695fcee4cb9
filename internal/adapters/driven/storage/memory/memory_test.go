package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

func TestConfigStore(t *testing.T) {
	store := NewConfigStore(map[string]any{"b.key": "v", "a.key": 3})

	assert.Equal(t, "v", store.GetString("b.key"))
	assert.Equal(t, 3, store.GetInt("a.key"))
	assert.Equal(t, "", store.GetString("a.key"))
	assert.False(t, store.GetBool("missing"))

	require.NoError(t, store.Set("c.flag", true))
	assert.True(t, store.GetBool("c.flag"))
	assert.Equal(t, []string{"a.key", "b.key", "c.flag"}, store.Keys())
}

func TestDocumentStore_AddDocument(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc := &domain.Document{Filename: "a.pdf", SourcePath: "/a.pdf"}
	chunks, err := store.AddDocument(ctx, doc, []string{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ID)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[1].Ordinal)

	_, err = store.AddDocument(ctx, &domain.Document{SourcePath: "/a.pdf"}, []string{"x"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	has, err := store.HasSourcePath(ctx, "/a.pdf")
	require.NoError(t, err)
	assert.True(t, has)

	docs, nChunks, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, docs)
	assert.Equal(t, 2, nChunks)

	_, err = store.GetDocument(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SearchBackend(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	_, err := store.AddDocument(ctx, &domain.Document{Filename: "a.pdf", SourcePath: "/a.pdf"},
		[]string{"Alpha beta", "gamma", "beta again"})
	require.NoError(t, err)

	results, err := store.SearchBackend().Search(ctx, "BETA", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.pdf", results[0].Filename)
	assert.Equal(t, domain.SearchModeSubstring, store.SearchBackend().Mode())
}

func TestConversationStore(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()

	first, _ := store.Create(ctx, "first")
	second, _ := store.Create(ctx, "second")
	require.NoError(t, store.AppendMessage(ctx, &domain.Message{ConversationID: first, Role: domain.RoleUser, Content: "q"}))
	require.NoError(t, store.AppendMessage(ctx, &domain.Message{ConversationID: first, Role: domain.RoleAssistant, Content: "a"}))

	convs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, convs[0].ID)

	msgs, err := store.Messages(ctx, first)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "q", msgs[0].Content)
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.Create(ctx, &domain.UserAccount{Username: "old", CreatedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, store.Create(ctx, &domain.UserAccount{Username: "new"}))
	assert.ErrorIs(t, store.Create(ctx, &domain.UserAccount{Username: "new"}), domain.ErrAlreadyExists)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", users[0].Username)

	require.NoError(t, store.TouchLastLogin(ctx, 1, time.Now()))
	u, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestObjectStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0600))

	store := NewObjectStore()
	require.NoError(t, store.Upload(ctx, "p/src.db", src))

	ok, err := store.Exists(ctx, "p/src.db")
	require.NoError(t, err)
	assert.True(t, ok)

	dst := filepath.Join(dir, "dst.db")
	require.NoError(t, store.Download(ctx, "p/src.db", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	store.SetErr(errors.New("offline"))
	_, err = store.Exists(ctx, "p/src.db")
	assert.Error(t, err)
	assert.Equal(t, 4, store.CallCount())
}

func TestCopySnapshotter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0600))

	dst := filepath.Join(dir, "b")
	require.NoError(t, CopySnapshotter{}.Snapshot(context.Background(), src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
