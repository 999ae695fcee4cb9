package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/services"
)

const testAdminPassword = "correct-horse"

// fileExtractor returns the file content as its text.
type fileExtractor struct{}

func (fileExtractor) Extract(_ context.Context, path string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	return string(data), 1, nil
}

type testEnv struct {
	docs   *memory.DocumentStore
	config *memory.ConfigStore
	remote *memory.ObjectStore
	backup *services.BackupService
	files  []domain.StoreFile
}

// setupTestServices wires real services over in-memory stores. Backup is
// disabled unless withRemote is true.
func setupTestServices(t *testing.T, withRemote bool) *testEnv {
	t.Helper()

	env := &testEnv{
		docs:   memory.NewDocumentStore(),
		config: memory.NewConfigStore(nil),
	}

	dir := t.TempDir()
	env.files = []domain.StoreFile{
		{Name: "documents", Path: filepath.Join(dir, "documents.db")},
		{Name: "chat", Path: filepath.Join(dir, "chat.db")},
	}
	var opts services.BackupOptions
	if withRemote {
		env.remote = memory.NewObjectStore()
		opts = services.BackupOptions{Target: "s3://test/docagent/", Snapshotter: memory.CopySnapshotter{}}
		env.backup = services.NewBackupService(env.remote, env.files, opts)
	} else {
		env.backup = services.NewBackupService(nil, env.files, opts)
	}

	search := services.NewSearchService(env.docs.SearchBackend(), nil)
	conversations := services.NewConversationService(memory.NewConversationStore(), nil)
	auth := services.NewAuthService(memory.NewUserStore(), nil, services.AuthOptions{AdminPassword: testAdminPassword})
	require.NoError(t, auth.Bootstrap(context.Background()))

	SetServices(&Services{
		Documents:     services.NewDocumentService(env.docs, fileExtractor{}, nil),
		Search:        search,
		Conversations: conversations,
		Assistant:     services.NewAssistantService(conversations, search, nil),
		Auth:          auth,
		Backup:        env.backup,
		Config:        env.config,
	})
	t.Cleanup(func() { SetServices(nil) })

	return env
}

// runCmd executes the root command and returns the combined output.
// Flag variables are reset afterwards since cobra keeps them between runs.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	verbose = false
	dataDir = ""
	searchLimit = domain.DefaultTopK
	searchJSON = false
	askConversation = 0
	documentChunks = false
	ingestWatch = false
	userActor = domain.DefaultAdminUsername
	userEmail = ""
	userMonths = 12
}

// writePDFs creates fake PDF files whose content is the extracted text.
func writePDFs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600))
	}
}
