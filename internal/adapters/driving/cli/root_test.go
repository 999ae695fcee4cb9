package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	flushed bool
	stopped bool
}

func (w *fakeWorker) Flush(context.Context) error {
	w.flushed = true
	return nil
}

func (w *fakeWorker) Stop() { w.stopped = true }

func TestVersionCmd(t *testing.T) {
	original := version
	SetVersion("1.2.3")
	defer SetVersion(original)

	out, err := runCmd(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docagent version 1.2.3")
}

func TestFactory_ReceivesGlobalFlags(t *testing.T) {
	var got Options
	SetFactory(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{}, nil
	})
	defer func() {
		SetFactory(nil)
		SetServices(nil)
	}()

	_, err := runCmd(t, "--data-dir", "/tmp/docagent-test", "-v", "conversation", "list")

	// No conversation service in the returned Services.
	assert.EqualError(t, err, "conversation service not configured")
	assert.Equal(t, Options{DataDir: "/tmp/docagent-test", Verbose: true}, got)
}

func TestFactory_SkippedForStandaloneCommands(t *testing.T) {
	called := false
	SetFactory(func(context.Context, Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})
	defer SetFactory(nil)

	_, err := runCmd(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestFactory_ErrorAbortsCommand(t *testing.T) {
	SetFactory(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("cannot open stores")
	})
	defer SetFactory(nil)

	_, err := runCmd(t, "document", "list")

	assert.EqualError(t, err, "cannot open stores")
}

func TestShutdown_FlushesAndCloses(t *testing.T) {
	worker := &fakeWorker{}
	closed := false
	SetServices(&Services{
		Worker: worker,
		Close: func() error {
			closed = true
			return nil
		},
	})

	shutdown()

	assert.True(t, worker.flushed)
	assert.True(t, worker.stopped)
	assert.True(t, closed)
	assert.Nil(t, current)
	assert.Nil(t, searchService)
}

func TestShutdown_NoServices(t *testing.T) {
	SetServices(nil)
	assert.NotPanics(t, shutdown)
}
