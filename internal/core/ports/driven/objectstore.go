package driven

import "context"

// ObjectStore is a remote blob store used to mirror local store files.
// Keys are full object names (prefix included).
type ObjectStore interface {
	// Exists reports whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Download writes the object to the local path, replacing any file there.
	Download(ctx context.Context, key, dst string) error

	// Upload writes the local file to the object, overwriting it.
	Upload(ctx context.Context, key, src string) error

	// EnsureBucket creates the target bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}

// Snapshotter produces a consistent copy of a live store file.
// Backups upload the snapshot so no store lock is held during remote I/O.
type Snapshotter interface {
	// Snapshot writes a self-contained copy of the store at src to dst.
	// dst must not exist.
	Snapshot(ctx context.Context, src, dst string) error
}
