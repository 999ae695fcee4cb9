package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

func TestBackupStatusCmd_Disabled(t *testing.T) {
	setupTestServices(t, false)

	out, err := runCmd(t, "backup", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: disabled")
	assert.Contains(t, out, "documents")
	assert.Contains(t, out, "chat")
}

func TestBackupPushCmd_Disabled(t *testing.T) {
	setupTestServices(t, false)

	_, err := runCmd(t, "backup", "push")
	assert.ErrorIs(t, err, domain.ErrBackupDisabled)
}

func TestBackupPushCmd(t *testing.T) {
	env := setupTestServices(t, true)
	require.NoError(t, os.WriteFile(env.files[0].Path, []byte("docs-db"), 0o600))

	out, err := runCmd(t, "backup", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "documents  uploaded")
	assert.Contains(t, out, "chat       missing_locally")

	data, ok := env.remote.Object("docagent/documents.db")
	require.True(t, ok)
	assert.Equal(t, "docs-db", string(data))
}

func TestBackupStatusCmd_ShowsStartupRestore(t *testing.T) {
	env := setupTestServices(t, true)
	current.RestoreReport = &domain.SyncReport{Files: []domain.FileResult{
		{File: env.files[0], Outcome: domain.OutcomeRestored},
		{File: env.files[1], Outcome: domain.OutcomeMissingRemote},
	}}

	out, err := runCmd(t, "backup", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: enabled")
	assert.Contains(t, out, "Target: s3://test/docagent/")
	assert.Contains(t, out, "Startup restore:")
	assert.Contains(t, out, "documents  restored")
	assert.Contains(t, out, "chat       missing_remote")
}
