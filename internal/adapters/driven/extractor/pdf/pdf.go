// Package pdf extracts plain text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// MaxFileSize is the largest file the extractor will open.
const MaxFileSize = 200 * 1024 * 1024

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads the text layer of a PDF page by page.
type Extractor struct{}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every page joined by newlines, and the page count.
func (e *Extractor) Extract(ctx context.Context, path string) (text string, pages int, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
	}
	if info.Size() > MaxFileSize {
		return "", 0, fmt.Errorf("%w: %s: file exceeds %d bytes", domain.ErrExtraction, path, MaxFileSize)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, r)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
	}

	pages = r.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %s: page %d: %v", domain.ErrExtraction, path, i, err)
		}
		parts = append(parts, content)
	}

	return strings.Join(parts, "\n"), pages, nil
}
