package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// rankedBackend searches the chunks_fts index ordered by BM25 cost.
type rankedBackend struct {
	db *sql.DB
}

var _ driven.SearchBackend = (*rankedBackend)(nil)

// Mode returns SearchModeRanked.
func (b *rankedBackend) Mode() domain.SearchMode {
	return domain.SearchModeRanked
}

// Search runs an FTS5 MATCH over the query terms. bm25() returns a cost
// where lower is better, so results are ordered ascending.
func (b *rankedBackend) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT c.id, c.text, d.id, d.filename, bm25(chunks_fts) AS cost
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.rowid
		JOIN documents d ON d.id = c.document_id
		WHERE chunks_fts MATCH ?
		ORDER BY cost ASC
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, indexErr(ctx, err)
	}
	defer rows.Close()

	results, err := scanResults(rows, true)
	if err != nil {
		return nil, indexErr(ctx, err)
	}
	return results, nil
}

// indexErr marks a ranked query failure as an index problem unless the
// caller gave up first.
func indexErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
}

// matchExpression quotes each query term and joins them with OR so any
// term can match and punctuation is never parsed as FTS5 syntax.
func matchExpression(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if !strings.ContainsFunc(f, isWordRune) {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " OR ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// substringBackend matches chunk text containing the query verbatim.
// LIKE is case-insensitive for ASCII. Every result scores 0.
type substringBackend struct {
	db *sql.DB
}

var _ driven.SearchBackend = (*substringBackend)(nil)

// Mode returns SearchModeSubstring.
func (b *substringBackend) Mode() domain.SearchMode {
	return domain.SearchModeSubstring
}

// Search returns up to limit chunks containing query, in insertion order.
func (b *substringBackend) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT c.id, c.text, d.id, d.filename
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.text LIKE ? ESCAPE '\'
		ORDER BY c.id
		LIMIT ?
	`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: substring search: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	results, err := scanResults(rows, false)
	if err != nil {
		return nil, fmt.Errorf("%w: substring search: %v", domain.ErrStorage, err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanResults(rows *sql.Rows, withScore bool) ([]domain.SearchResult, error) {
	var results []domain.SearchResult //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		var r domain.SearchResult
		dest := []any{&r.ChunkID, &r.ChunkText, &r.DocumentID, &r.Filename}
		if withScore {
			dest = append(dest, &r.Score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
