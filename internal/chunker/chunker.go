// Package chunker provides a deterministic sliding-window text splitter.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1200

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 150

// Splitter splits text into overlapping fixed-size windows.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.overlap = clampOverlap(s.chunkSize, s.overlap)
	return s
}

// ChunkSize returns the configured window size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the effective overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split splits text using the splitter's configuration.
func (s *Splitter) Split(text string) []string {
	return Split(text, s.chunkSize, s.overlap)
}

// Split cuts text into windows of at most size characters, each starting
// overlap characters before the previous window's end. Windows that are
// empty after trimming are dropped without affecting the offsets of the
// windows that follow. Lengths are counted in runes.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap = clampOverlap(size, overlap)

	runes := []rune(text)
	n := len(runes)

	parts := make([]string, 0, n/(size-overlap)+1)
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}

		if part := strings.TrimSpace(string(runes[start:end])); part != "" {
			parts = append(parts, part)
		}

		if end == n {
			break
		}

		start = end - overlap
		if start < 0 {
			start = 0
		}
	}

	return parts
}

// clampOverlap keeps the net advance per window positive.
func clampOverlap(size, overlap int) int {
	if overlap < 0 {
		return 0
	}
	if overlap >= size {
		return size / 4
	}
	return overlap
}
