package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docagent/internal/core/domain"
)

func storeFiles(dir string) []domain.StoreFile {
	return []domain.StoreFile{
		{Name: "documents", Path: filepath.Join(dir, "documents.db")},
		{Name: "chat", Path: filepath.Join(dir, "chat.db")},
		{Name: "users", Path: filepath.Join(dir, "users.db")},
	}
}

func outcomes(r *domain.SyncReport) []domain.FileOutcome {
	out := make([]domain.FileOutcome, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Outcome
	}
	return out
}

func TestResolveBackupConfig_Precedence(t *testing.T) {
	env := map[string]string{
		"S3_ENDPOINT":           "env-endpoint:9000",
		"AWS_ENDPOINT_URL":      "ignored",
		"DOCAGENT_S3_BUCKET":    "env-bucket",
		"AWS_ACCESS_KEY_ID":     "env-ak",
		"AWS_SECRET_ACCESS_KEY": "env-sk",
	}
	cfg := memory.NewConfigStore(map[string]any{
		ConfigBackupBucket:  "cfg-bucket",
		ConfigBackupUseSSL:  false,
		ConfigBackupTimeout: "5s",
	})

	c := ResolveBackupConfig(cfg, func(k string) string { return env[k] })

	assert.Equal(t, "env-endpoint:9000", c.Endpoint)
	assert.Equal(t, "cfg-bucket", c.Bucket)
	assert.Equal(t, "env-ak", c.AccessKey)
	assert.Equal(t, "env-sk", c.SecretKey)
	assert.Equal(t, DefaultBackupPrefix, c.Prefix)
	require.NotNil(t, c.UseSSL)
	assert.False(t, *c.UseSSL)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.True(t, c.Complete())
	assert.Equal(t, "s3://cfg-bucket/docagent/", c.Target())
}

func TestResolveBackupConfig_Incomplete(t *testing.T) {
	env := map[string]string{
		"DOCAGENT_S3_ENDPOINT": "minio:9000",
		"DOCAGENT_S3_BUCKET":   "b",
		"AWS_ACCESS_KEY_ID":    "ak",
	}

	c := ResolveBackupConfig(nil, func(k string) string { return env[k] })
	assert.False(t, c.Complete())
	assert.Nil(t, c.UseSSL)
	assert.Equal(t, DefaultRemoteTimeout, c.Timeout)
}

func TestBackupService_Disabled(t *testing.T) {
	svc := NewBackupService(nil, storeFiles(t.TempDir()), BackupOptions{})
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	_, err := svc.Backup(ctx)
	assert.ErrorIs(t, err, domain.ErrBackupDisabled)
	_, err = svc.Restore(ctx)
	assert.ErrorIs(t, err, domain.ErrBackupDisabled)
	svc.Sync(ctx)
	assert.False(t, svc.Info().Enabled)
}

func TestBackupService_BackupUploadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	files := storeFiles(dir)
	require.NoError(t, os.WriteFile(files[0].Path, []byte("docs"), 0o600))
	require.NoError(t, os.WriteFile(files[2].Path, []byte("users"), 0o600))

	remote := memory.NewObjectStore()
	svc := NewBackupService(remote, files, BackupOptions{Prefix: "team/", Snapshotter: memory.CopySnapshotter{}})

	report, err := svc.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.FileOutcome{
		domain.OutcomeUploaded, domain.OutcomeMissingLocal, domain.OutcomeUploaded,
	}, outcomes(report))
	assert.Equal(t, []string{"team/documents.db", "team/users.db"}, remote.Keys())

	data, ok := remote.Object("team/documents.db")
	require.True(t, ok)
	assert.Equal(t, "docs", string(data))
}

func TestBackupService_BackupOverwritesRemote(t *testing.T) {
	dir := t.TempDir()
	files := storeFiles(dir)
	require.NoError(t, os.WriteFile(files[1].Path, []byte("new"), 0o600))

	remote := memory.NewObjectStore()
	remote.Put("docagent/chat.db", []byte("old"))
	svc := NewBackupService(remote, files, BackupOptions{})

	_, err := svc.Backup(context.Background())
	require.NoError(t, err)

	data, _ := remote.Object("docagent/chat.db")
	assert.Equal(t, "new", string(data))
}

func TestBackupService_BackupRemoteFailure(t *testing.T) {
	dir := t.TempDir()
	files := storeFiles(dir)
	require.NoError(t, os.WriteFile(files[0].Path, []byte("docs"), 0o600))

	remote := memory.NewObjectStore()
	remote.SetErr(errBoom)
	svc := NewBackupService(remote, files, BackupOptions{})

	report, err := svc.Backup(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, report.Files[0].Err, domain.ErrRemoteUnavailable)

	// Sync swallows the same failure.
	svc.Sync(context.Background())
}

func TestBackupService_RestoreFillsOnlyAbsentFiles(t *testing.T) {
	dir := t.TempDir()
	files := storeFiles(dir)
	require.NoError(t, os.WriteFile(files[0].Path, []byte("local docs"), 0o600))

	remote := memory.NewObjectStore()
	remote.Put("docagent/documents.db", []byte("remote docs"))
	remote.Put("docagent/chat.db", []byte("remote chat"))
	svc := NewBackupService(remote, files, BackupOptions{})

	report, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.FileOutcome{
		domain.OutcomeSkippedLocal, domain.OutcomeRestored, domain.OutcomeMissingRemote,
	}, outcomes(report))

	data, err := os.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "local docs", string(data))

	data, err = os.ReadFile(files[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "remote chat", string(data))

	_, err = os.Stat(files[2].Path)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBackupService_RestoreRemoteFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	remote := memory.NewObjectStore()
	remote.SetErr(errBoom)
	svc := NewBackupService(remote, storeFiles(dir), BackupOptions{})

	report, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Failed())

	// One existence check per file, no retries.
	assert.Equal(t, 3, remote.CallCount())
}

func TestBackupService_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	files := storeFiles(dir)
	for _, f := range files {
		require.NoError(t, os.WriteFile(f.Path, []byte("content of "+f.Name), 0o600))
	}

	remote := memory.NewObjectStore()
	svc := NewBackupService(remote, files, BackupOptions{Snapshotter: memory.CopySnapshotter{}})
	ctx := context.Background()

	_, err := svc.Backup(ctx)
	require.NoError(t, err)

	for _, f := range files {
		require.NoError(t, os.Remove(f.Path))
	}

	report, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Failed())

	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, "content of "+f.Name, string(data))
	}
}

func TestBackupService_InfoAndKey(t *testing.T) {
	files := storeFiles("/data")
	svc := NewBackupService(memory.NewObjectStore(), files, BackupOptions{Target: "s3://b/docagent/"})

	info := svc.Info()
	assert.True(t, info.Enabled)
	assert.Equal(t, "s3://b/docagent/", info.Target)
	assert.Equal(t, DefaultBackupPrefix, info.Prefix)
	assert.Len(t, info.Files, 3)
	assert.Equal(t, "docagent/users.db", svc.Key(files[2]))
}
