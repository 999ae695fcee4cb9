package driven

import "context"

// TextExtractor pulls plain text out of a document file.
//
// An unreadable or corrupt file returns an error; a readable file with no
// text returns an empty string. Callers skip the file in both cases.
type TextExtractor interface {
	// Extract returns the full text and the page count.
	Extract(ctx context.Context, path string) (text string, pages int, err error)
}
