package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
	assert.Empty(t, store.Keys())

	// Nothing is written until the first Set.
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(nested)
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("not toml {{[["), 0600))

	store, err := NewConfigStore(dir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_NestedFileLayout(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("backup.bucket", "docs"))
	require.NoError(t, store.Set("backup.use_ssl", false))
	require.NoError(t, store.Set("search.top_k", int64(8)))

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[backup]")
	assert.Contains(t, string(raw), "[search]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"backup.bucket", "backup.use_ssl", "search.top_k"}, reloaded.Keys())
	assert.Equal(t, "docs", reloaded.GetString("backup.bucket"))
	assert.False(t, reloaded.GetBool("backup.use_ssl"))
	assert.Equal(t, 8, reloaded.GetInt("search.top_k"))
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[llm]
model = "claude-test"

[backup]
endpoint = "http://localhost:9000"
timeout = "10s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "claude-test", store.GetString("llm.model"))
	assert.Equal(t, "http://localhost:9000", store.GetString("backup.endpoint"))
	assert.Equal(t, "10s", store.GetString("backup.timeout"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("n", int64(42)))
	require.NoError(t, store.Set("ns", "17"))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("bs", "true"))
	require.NoError(t, store.Set("list", []any{"x", 1, "y"}))

	assert.Equal(t, 42, store.GetInt("n"))
	assert.Equal(t, "42", store.GetString("n"))
	assert.Equal(t, 17, store.GetInt("ns"))
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, "true", store.GetString("b"))
	assert.True(t, store.GetBool("bs"))
	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("list"))

	assert.Zero(t, store.GetInt("missing"))
	assert.Empty(t, store.GetString("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Set_InvalidKey(t *testing.T) {
	store, _ := newTestStore(t)
	for _, key := range []string{"", "  ", ".a", "a.", "a..b"} {
		assert.ErrorIs(t, store.Set(key, "v"), domain.ErrInvalidInput, key)
	}
}

func TestConfigStore_Set_TableConflict(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("backup.bucket", "docs"))

	assert.ErrorIs(t, store.Set("backup", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Set("backup.bucket.name", "x"), domain.ErrInvalidInput)

	require.NoError(t, store.Set("backup.bucket", "other"))
	assert.Equal(t, "other", store.GetString("backup.bucket"))
}

func TestConfigStore_Set_WriteFailureRollsBack(t *testing.T) {
	store, _ := newTestStore(t)

	// Channels cannot be encoded as TOML.
	err := store.Set("bad", make(chan int))
	require.Error(t, err)

	_, ok := store.Get("bad")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("auth.admin_password", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "worker.k" + string(rune('0'+id))
			_ = store.Set(key, int64(id))
			_ = store.GetInt(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, false, ParseValue(" false "))
	assert.Equal(t, int64(12), ParseValue("12"))
	assert.Equal(t, "30s", ParseValue("30s"))
	assert.Equal(t, "TRUE", ParseValue("TRUE"))
	assert.Equal(t, "http://x", ParseValue("http://x"))
}
