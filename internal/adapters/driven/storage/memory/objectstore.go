package memory

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// ObjectStore is an in-memory remote blob store for backup tests.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	bucket  bool

	err   error
	calls int
}

// NewObjectStore creates an empty object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[string][]byte)}
}

// Exists reports whether key is present.
func (s *ObjectStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.objects[key]
	return ok, nil
}

// Download writes the object to dst.
func (s *ObjectStore) Download(_ context.Context, key, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	data, ok := s.objects[key]
	if !ok {
		return os.ErrNotExist
	}
	return os.WriteFile(dst, data, 0600)
}

// Upload stores the file at src under key.
func (s *ObjectStore) Upload(_ context.Context, key, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

// EnsureBucket marks the bucket as created.
func (s *ObjectStore) EnsureBucket(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.bucket = true
	return nil
}

// Put seeds an object directly.
func (s *ObjectStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// Object returns a stored object.
func (s *ObjectStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Keys returns all stored keys in sorted order.
func (s *ObjectStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetErr sets the error returned by every operation.
func (s *ObjectStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// CallCount returns the number of operations attempted.
func (s *ObjectStore) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CopySnapshotter snapshots by copying the file byte for byte.
type CopySnapshotter struct{}

var _ driven.Snapshotter = CopySnapshotter{}

// Snapshot copies src to dst.
func (CopySnapshotter) Snapshot(_ context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
