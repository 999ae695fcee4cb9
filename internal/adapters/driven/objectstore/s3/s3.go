// Package s3 stores backup snapshots in an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

const snapshotContentType = "application/vnd.sqlite3"

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// Config holds the connection settings for the remote bucket.
type Config struct {
	// Endpoint is host[:port] or a full http(s) URL.
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string

	// UseSSL overrides the scheme-derived setting when non-nil.
	UseSSL *bool
}

// Store is an ObjectStore backed by minio-go.
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a Store. No network traffic happens until the first call.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	host, secure, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// Exists reports whether key is present in the bucket.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("s3: stat %s: %w", key, err)
}

// Download writes the object at key to dst.
func (s *Store) Download(ctx context.Context, key, dst string) error {
	if err := s.client.FGetObject(ctx, s.bucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("s3: get %s: %w", key, err)
	}
	return nil
}

// Upload stores the file at src under key, replacing any previous object.
func (s *Store) Upload(ctx context.Context, key, src string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, key, src, minio.PutObjectOptions{
		ContentType: snapshotContentType,
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	if err != nil {
		// Another writer may have created it in between.
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("s3: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// parseEndpoint splits an endpoint into the host minio expects and the TLS
// setting. A bare host defaults to TLS.
func parseEndpoint(raw string, useSSL *bool) (host string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("s3: endpoint is required")
	}

	secure = true
	host = raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("s3: invalid endpoint %q: %w", raw, err)
		}
		switch u.Scheme {
		case "https":
			secure = true
		case "http":
			secure = false
		default:
			return "", false, fmt.Errorf("s3: unsupported endpoint scheme %q", u.Scheme)
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("s3: endpoint %q must not contain a path", raw)
		}
		host = u.Host
	}
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		return "", false, fmt.Errorf("s3: invalid endpoint %q", raw)
	}

	if useSSL != nil {
		secure = *useSSL
	}
	return host, secure, nil
}
