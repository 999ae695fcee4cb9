package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docagent/internal/chunker"
	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Ingestion window. Fixed so re-ingestion produces identical chunks.
const (
	IngestChunkSize    = 1200
	IngestChunkOverlap = 150
)

// DocumentService ingests PDF folders and reads back documents.
type DocumentService struct {
	store     driven.DocumentStore
	extractor driven.TextExtractor
	splitter  *chunker.Splitter
	notifier  Notifier
}

// NewDocumentService creates a new document service.
// The extractor may be nil, in which case ingestion fails.
func NewDocumentService(
	store driven.DocumentStore,
	extractor driven.TextExtractor,
	notifier Notifier,
) *DocumentService {
	return &DocumentService{
		store:     store,
		extractor: extractor,
		splitter:  chunker.New(chunker.WithChunkSize(IngestChunkSize), chunker.WithOverlap(IngestChunkOverlap)),
		notifier:  notifierOrNop(notifier),
	}
}

// IngestFolder adds every PDF under root that has not been ingested before.
// Files are visited in lexical path order. A file whose text cannot be
// extracted is recorded in the report and skipped; a storage failure aborts
// the run and is returned with the partial report.
func (s *DocumentService) IngestFolder(ctx context.Context, root string) (*domain.IngestReport, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no text extractor configured", domain.ErrExtraction)
	}

	root, err := checkFolder(root)
	if err != nil {
		return nil, err
	}

	paths, err := findPDFs(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("ingest: %d PDF files under %s", len(paths), root)

	report := &domain.IngestReport{}
	defer func() {
		if report.DocumentsAdded > 0 {
			s.notifier.Notify("ingest")
		}
	}()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		known, err := s.store.HasSourcePath(ctx, path)
		if err != nil {
			return report, err
		}
		if known {
			report.Skipped++
			continue
		}

		added, err := s.ingestFile(ctx, path)
		switch {
		case errors.Is(err, domain.ErrExtraction):
			logger.Warn("skipping %s: %v", path, err)
			report.Failures = append(report.Failures, domain.FileFailure{Path: path, Err: err})
		case errors.Is(err, domain.ErrAlreadyExists):
			report.Skipped++
		case err != nil:
			return report, err
		case added == 0:
			logger.Debug("ingest: %s has no text", path)
			report.Skipped++
		default:
			report.DocumentsAdded++
			report.ChunksAdded += added
		}
	}

	return report, nil
}

// ingestFile extracts, splits and stores one file, returning the number
// of chunks written. Zero means the file had no text.
func (s *DocumentService) ingestFile(ctx context.Context, path string) (int, error) {
	text, pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	texts := s.splitter.Split(text)
	if len(texts) == 0 {
		return 0, nil
	}

	doc := &domain.Document{
		Filename:   filepath.Base(path),
		SourcePath: path,
		PageCount:  pages,
	}
	chunks, err := s.store.AddDocument(ctx, doc, texts)
	if err != nil {
		return 0, err
	}

	logger.Debug("ingest: %s -> document %d, %d chunks", doc.Filename, doc.ID, len(chunks))
	return len(chunks), nil
}

// checkFolder resolves root to an absolute directory path.
func checkFolder(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: folder path is empty", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("folder %s: %w", abs, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return abs, nil
}

// findPDFs lists *.pdf files (any case) under root, sorted.
// Unreadable subdirectories are logged and skipped.
func findPDFs(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsPDF(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", domain.ErrInvalidInput, root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// IsPDF reports whether path has a .pdf extension, ignoring case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// Chunks returns a document's chunks in order.
func (s *DocumentService) Chunks(ctx context.Context, documentID int64) ([]domain.Chunk, error) {
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.store.GetChunks(ctx, documentID)
}
