package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure BackupService implements the interface.
var _ driving.BackupService = (*BackupService)(nil)

// Configuration keys for remote backup.
const (
	ConfigBackupEndpoint  = "backup.endpoint"
	ConfigBackupBucket    = "backup.bucket"
	ConfigBackupAccessKey = "backup.access_key"
	ConfigBackupSecretKey = "backup.secret_key"
	ConfigBackupPrefix    = "backup.prefix"
	ConfigBackupRegion    = "backup.region"
	ConfigBackupUseSSL    = "backup.use_ssl"
	ConfigBackupTimeout   = "backup.timeout"
)

// Backup defaults.
const (
	DefaultBackupPrefix  = "docagent/"
	DefaultRemoteTimeout = 30 * time.Second
)

// Environment variables consulted, in order, when a required field is not
// in the config store.
var (
	endpointEnv  = []string{"DOCAGENT_S3_ENDPOINT", "S3_ENDPOINT", "AWS_ENDPOINT_URL_S3", "AWS_ENDPOINT_URL"}
	bucketEnv    = []string{"DOCAGENT_S3_BUCKET", "S3_BUCKET"}
	accessKeyEnv = []string{"DOCAGENT_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID"}
	secretKeyEnv = []string{"DOCAGENT_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"}
)

// BackupConfig is the resolved remote store configuration.
type BackupConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
	Region    string
	// UseSSL is nil when not configured; the adapter then decides from
	// the endpoint scheme.
	UseSSL  *bool
	Timeout time.Duration
}

// Complete reports whether every required field is set. An incomplete
// configuration disables backup for the whole process.
func (c BackupConfig) Complete() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Target returns "s3://bucket/prefix" for display.
func (c BackupConfig) Target() string {
	return "s3://" + c.Bucket + "/" + c.Prefix
}

// ResolveBackupConfig reads the config store first, then the environment.
// getenv is normally os.Getenv.
func ResolveBackupConfig(cfg driven.ConfigStore, getenv func(string) string) BackupConfig {
	get := func(key string, env []string) string {
		if cfg != nil {
			if v := strings.TrimSpace(cfg.GetString(key)); v != "" {
				return v
			}
		}
		for _, name := range env {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				return v
			}
		}
		return ""
	}

	c := BackupConfig{
		Endpoint:  get(ConfigBackupEndpoint, endpointEnv),
		Bucket:    get(ConfigBackupBucket, bucketEnv),
		AccessKey: get(ConfigBackupAccessKey, accessKeyEnv),
		SecretKey: get(ConfigBackupSecretKey, secretKeyEnv),
		Prefix:    get(ConfigBackupPrefix, nil),
		Region:    get(ConfigBackupRegion, []string{"AWS_REGION"}),
		Timeout:   DefaultRemoteTimeout,
	}
	if c.Prefix == "" {
		c.Prefix = DefaultBackupPrefix
	}

	if cfg != nil {
		if v, ok := cfg.Get(ConfigBackupUseSSL); ok {
			if b, ok := v.(bool); ok {
				c.UseSSL = &b
			}
		}
		if d, err := time.ParseDuration(cfg.GetString(ConfigBackupTimeout)); err == nil && d > 0 {
			c.Timeout = d
		}
	}
	return c
}

// BackupOptions configures a BackupService.
type BackupOptions struct {
	Prefix      string
	Target      string
	Timeout     time.Duration
	Snapshotter driven.Snapshotter
}

// BackupService mirrors the local store files to a remote object store.
// Each file is independent: one can succeed while another fails.
type BackupService struct {
	remote driven.ObjectStore
	files  []domain.StoreFile
	opts   BackupOptions

	// mu serialises uploads so two snapshots never race for the same key.
	mu          sync.Mutex
	bucketReady bool
}

// NewBackupService creates a backup service. A nil remote disables backup.
func NewBackupService(remote driven.ObjectStore, files []domain.StoreFile, opts BackupOptions) *BackupService {
	if opts.Prefix == "" {
		opts.Prefix = DefaultBackupPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRemoteTimeout
	}
	return &BackupService{remote: remote, files: files, opts: opts}
}

// Enabled reports whether a remote store is configured.
func (s *BackupService) Enabled() bool {
	return s.remote != nil
}

// Info describes the remote target and local files.
func (s *BackupService) Info() domain.BackupInfo {
	return domain.BackupInfo{
		Enabled: s.Enabled(),
		Target:  s.opts.Target,
		Prefix:  s.opts.Prefix,
		Files:   append([]domain.StoreFile(nil), s.files...),
	}
}

// Key returns the object key for a store file.
func (s *BackupService) Key(f domain.StoreFile) string {
	return s.opts.Prefix + filepath.Base(f.Path)
}

// Restore fetches each store file that is absent locally. A missing remote
// object is normal on first run. Remote failures are logged and the file is
// left absent; they are never retried or returned.
func (s *BackupService) Restore(ctx context.Context) (*domain.SyncReport, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupDisabled
	}

	report := &domain.SyncReport{StartedAt: time.Now()}
	for _, f := range s.files {
		res := s.restoreFile(ctx, f)
		if res.Err != nil {
			logger.Warn("restore %s: %v", f.Name, res.Err)
		} else {
			logger.Debug("restore %s: %s", f.Name, res.Outcome)
		}
		report.Files = append(report.Files, res)
	}
	report.EndedAt = time.Now()
	return report, nil
}

func (s *BackupService) restoreFile(ctx context.Context, f domain.StoreFile) domain.FileResult {
	res := domain.FileResult{File: f, Key: s.Key(f)}

	if exists, err := localExists(f.Path); err != nil {
		return failed(res, err)
	} else if exists {
		res.Outcome = domain.OutcomeSkippedLocal
		return res
	}

	found, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return s.remote.Exists(ctx, res.Key)
	})
	if err != nil {
		return failed(res, remoteErr(err))
	}
	if !found {
		res.Outcome = domain.OutcomeMissingRemote
		return res
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return failed(res, err)
	}

	// Download beside the target and rename so a partial download never
	// looks like a store file.
	tmp := f.Path + ".restore-" + uuid.NewString()
	defer os.Remove(tmp) //nolint:errcheck

	_, err = s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return true, s.remote.Download(ctx, res.Key, tmp)
	})
	if err != nil {
		return failed(res, remoteErr(err))
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return failed(res, err)
	}

	res.Outcome = domain.OutcomeRestored
	return res
}

// Backup uploads a snapshot of every store file that exists locally,
// overwriting the remote copy. The returned error is non-nil when any file
// failed; the report has the per-file detail.
func (s *BackupService) Backup(ctx context.Context) (*domain.SyncReport, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureBucket(ctx)

	report := &domain.SyncReport{StartedAt: time.Now()}
	for _, f := range s.files {
		res := s.backupFile(ctx, f)
		if res.Err != nil {
			logger.Warn("backup %s: %v", f.Name, res.Err)
		} else {
			logger.Debug("backup %s: %s", f.Name, res.Outcome)
		}
		report.Files = append(report.Files, res)
	}
	report.EndedAt = time.Now()

	if n := report.Failed(); n > 0 {
		return report, fmt.Errorf("%w: %d of %d files failed", domain.ErrRemoteUnavailable, n, len(report.Files))
	}
	return report, nil
}

func (s *BackupService) ensureBucket(ctx context.Context) {
	if s.bucketReady {
		return
	}
	_, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return true, s.remote.EnsureBucket(ctx)
	})
	if err != nil {
		logger.Warn("ensuring backup bucket: %v", err)
		return
	}
	s.bucketReady = true
}

func (s *BackupService) backupFile(ctx context.Context, f domain.StoreFile) domain.FileResult {
	res := domain.FileResult{File: f, Key: s.Key(f)}

	if exists, err := localExists(f.Path); err != nil {
		return failed(res, err)
	} else if !exists {
		res.Outcome = domain.OutcomeMissingLocal
		return res
	}

	src := f.Path
	if s.opts.Snapshotter != nil {
		snap := filepath.Join(os.TempDir(), "docagent-"+uuid.NewString()+"-"+filepath.Base(f.Path))
		defer os.Remove(snap) //nolint:errcheck

		if err := s.opts.Snapshotter.Snapshot(ctx, f.Path, snap); err != nil {
			return failed(res, err)
		}
		src = snap
	}

	_, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return true, s.remote.Upload(ctx, res.Key, src)
	})
	if err != nil {
		return failed(res, remoteErr(err))
	}

	res.Outcome = domain.OutcomeUploaded
	return res
}

// Sync runs Backup and only logs failures. Write paths do not call it;
// they notify the BackupWorker, which drains intents off the caller's
// goroutine. Sync is for one-off callers that want a fire-and-forget push.
func (s *BackupService) Sync(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if _, err := s.Backup(ctx); err != nil {
		logger.Warn("backup sync: %v", err)
	}
}

// withTimeout bounds a single remote call.
func (s *BackupService) withTimeout(
	ctx context.Context, fn func(context.Context) (bool, error),
) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return fn(ctx)
}

func localExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func failed(res domain.FileResult, err error) domain.FileResult {
	res.Outcome = domain.OutcomeFailed
	res.Err = err
	return res
}

func remoteErr(err error) error {
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
}
