package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/logger"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	db      *sql.DB
	indexed bool

	indexWarn sync.Once
}

var _ driven.DocumentStore = (*documentStore)(nil)

// HasSourcePath reports whether a document with this exact path exists.
func (s *documentStore) HasSourcePath(ctx context.Context, path string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE source_path = ?", path).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: checking source path: %v", domain.ErrStorage, err)
	}
	return n > 0, nil
}

// AddDocument inserts the document, its chunks and their index entries in
// one transaction. Index insert failures are logged and do not abort it.
func (s *documentStore) AddDocument(
	ctx context.Context, doc *domain.Document, texts []string,
) ([]domain.Chunk, error) {
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now()
	}
	doc.AddedAt = doc.AddedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (filename, source_path, page_count, added_at)
		VALUES (?, ?, ?, ?)
	`, doc.Filename, doc.SourcePath, doc.PageCount, doc.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("document %s: %w", doc.SourcePath, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: inserting document: %v", domain.ErrStorage, err)
	}

	docID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: reading document id: %v", domain.ErrStorage, err)
	}

	chunkStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (document_id, ordinal, text) VALUES (?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("%w: preparing chunk insert: %v", domain.ErrStorage, err)
	}
	defer chunkStmt.Close()

	var indexStmt *sql.Stmt
	if s.indexed {
		indexStmt, err = tx.PrepareContext(ctx,
			"INSERT INTO chunks_fts (rowid, text) VALUES (?, ?)")
		if err != nil {
			s.warnIndex(err)
		} else {
			defer indexStmt.Close()
		}
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		res, err := chunkStmt.ExecContext(ctx, docID, i, text)
		if err != nil {
			return nil, fmt.Errorf("%w: inserting chunk %d: %v", domain.ErrStorage, i, err)
		}
		chunkID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("%w: reading chunk id: %v", domain.ErrStorage, err)
		}

		if indexStmt != nil {
			if _, err := indexStmt.ExecContext(ctx, chunkID, text); err != nil {
				s.warnIndex(err)
			}
		}

		chunks = append(chunks, domain.Chunk{
			ID:         chunkID,
			DocumentID: docID,
			Ordinal:    i,
			Text:       text,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing document: %v", domain.ErrStorage, err)
	}

	doc.ID = docID
	return chunks, nil
}

func (s *documentStore) warnIndex(err error) {
	s.indexWarn.Do(func() {
		logger.Warn("full-text index insert failed, substring search still covers the corpus: %v", err)
	})
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, source_path, page_count, added_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.PageCount, &doc.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanning document: %v", domain.ErrStorage, err)
	}
	doc.AddedAt = doc.AddedAt.UTC()
	return &doc, nil
}

// ListDocuments returns all documents ordered by ID.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, source_path, page_count, added_at
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.PageCount, &doc.AddedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning document: %v", domain.ErrStorage, err)
		}
		doc.AddedAt = doc.AddedAt.UTC()
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetChunks retrieves all chunks for a document ordered by ordinal.
func (s *documentStore) GetChunks(ctx context.Context, documentID int64) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, ordinal, text
		FROM chunks WHERE document_id = ?
		ORDER BY ordinal
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Ordinal, &c.Text); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStorage, err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// Counts returns the number of documents and chunks.
func (s *documentStore) Counts(ctx context.Context) (documents, chunks int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM documents), (SELECT COUNT(*) FROM chunks)",
	).Scan(&documents, &chunks)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: counting documents: %v", domain.ErrStorage, err)
	}
	return documents, chunks, nil
}
