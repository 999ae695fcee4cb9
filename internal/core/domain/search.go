package domain

// DefaultTopK is the number of passages retrieved for a question.
const DefaultTopK = 6

// SearchMode identifies which search backend produced results.
type SearchMode string

// Available search modes.
const (
	// SearchModeRanked uses the BM25 full-text index.
	SearchModeRanked SearchMode = "ranked"

	// SearchModeSubstring uses unranked substring containment.
	SearchModeSubstring SearchMode = "substring"
)

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeRanked:
		return "Ranked (BM25 full-text)"
	case SearchModeSubstring:
		return "Substring (unranked fallback)"
	default:
		return "Unknown"
	}
}

// SearchResult represents a single retrieved passage.
type SearchResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID int64

	// ChunkText is the passage text.
	ChunkText string

	// DocumentID links to the owning document.
	DocumentID int64

	// Filename is the owning document's file name.
	Filename string

	// Score is the native BM25 cost (lower is better) or 0 for unranked results.
	Score float64
}
