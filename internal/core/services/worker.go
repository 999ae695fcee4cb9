package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure BackupWorker can be handed to services as their Notifier.
var _ Notifier = (*BackupWorker)(nil)

// WorkerOptions configures a BackupWorker.
type WorkerOptions struct {
	// MinInterval is the minimum time between two backup runs.
	MinInterval time.Duration
	// Retries is how many times a failed run is retried.
	Retries int
	// Backoff is the delay before the first retry; it doubles each time.
	Backoff time.Duration
}

// DefaultWorkerOptions returns the standard throttle and retry budget.
func DefaultWorkerOptions() WorkerOptions {
	return WorkerOptions{
		MinInterval: 5 * time.Second,
		Retries:     3,
		Backoff:     time.Second,
	}
}

// BackupWorker drains sync intents into backup runs. Mutations call
// Notify, which only records an intent; intents queued while a run is
// pending coalesce into one. Runs are rate limited and retried with
// exponential backoff, so write latency never depends on the remote.
type BackupWorker struct {
	backup  driving.BackupService
	opts    WorkerOptions
	limiter *rate.Limiter

	mu       sync.Mutex
	pending  *domain.SyncIntent
	inFlight bool
	running  bool
	wake     chan struct{}
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewBackupWorker creates a worker. It does nothing until Start or Flush.
func NewBackupWorker(backup driving.BackupService, opts WorkerOptions) *BackupWorker {
	def := DefaultWorkerOptions()
	if opts.MinInterval <= 0 {
		opts.MinInterval = def.MinInterval
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	return &BackupWorker{
		backup:  backup,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		wake:    make(chan struct{}, 1),
	}
}

// Notify records that local state changed. It never blocks.
func (w *BackupWorker) Notify(reason string) {
	if !w.backup.Enabled() {
		return
	}

	w.mu.Lock()
	if w.pending == nil {
		w.pending = &domain.SyncIntent{
			ID:         uuid.NewString(),
			Reason:     reason,
			EnqueuedAt: time.Now(),
		}
	} else if !containsReason(w.pending.Reason, reason) {
		w.pending.Reason += "," + reason
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func containsReason(list, reason string) bool {
	for _, r := range strings.Split(list, ",") {
		if r == reason {
			return true
		}
	}
	return false
}

// Pending returns the queued intent, if any.
func (w *BackupWorker) Pending() *domain.SyncIntent {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return nil
	}
	p := *w.pending
	return &p
}

// Start launches the drain loop in the background.
func (w *BackupWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop shuts down the drain loop and waits for an in-flight run.
// Queued intents stay queued; call Flush first to push them.
func (w *BackupWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *BackupWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Let Flush drain inline from now on.
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-w.stopCh:
			return
		case <-w.wake:
			w.drain(ctx)
		}
	}
}

// Flush waits until no intent is queued or running. When the loop is not
// started the queued intent is drained on the caller's goroutine.
func (w *BackupWorker) Flush(ctx context.Context) error {
	const poll = 50 * time.Millisecond

	for {
		w.mu.Lock()
		idle := w.pending == nil && !w.inFlight
		drainHere := !w.running && w.pending != nil && !w.inFlight
		w.mu.Unlock()

		if idle {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if drainHere {
			w.drain(ctx)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}

// drain takes the queued intent and runs backups until one succeeds or
// the retry budget is spent.
func (w *BackupWorker) drain(ctx context.Context) {
	w.mu.Lock()
	intent := w.pending
	if intent == nil || w.inFlight {
		w.mu.Unlock()
		return
	}
	w.pending = nil
	w.inFlight = true
	stop := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	if err := w.limiter.Wait(ctx); err != nil {
		w.requeue(intent)
		return
	}

	delay := w.opts.Backoff
	for attempt := 0; ; attempt++ {
		_, err := w.backup.Backup(ctx)
		if err == nil {
			logger.Debug("backup %s (%s) done", intent.ID, intent.Reason)
			return
		}
		if attempt >= w.opts.Retries {
			logger.Error("backup %s (%s) abandoned after %d attempts: %v",
				intent.ID, intent.Reason, attempt+1, err)
			return
		}

		logger.Warn("backup attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
		select {
		case <-ctx.Done():
			w.requeue(intent)
			return
		case <-stop:
			w.requeue(intent)
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// requeue puts an interrupted intent back unless a newer one replaced it.
func (w *BackupWorker) requeue(intent *domain.SyncIntent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		w.pending = intent
	}
}
