package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docagent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Store file names inside the data directory.
const (
	DocumentsFile = "documents.db"
	ChatFile      = "chat.db"
	UsersFile     = "users.db"
)

const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// DefaultDataDir returns ~/.docagent/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docagent", "data"), nil
}

// Files lists the three store files under dataDir in backup order.
func Files(dataDir string) []domain.StoreFile {
	return []domain.StoreFile{
		{Name: "documents", Path: filepath.Join(dataDir, DocumentsFile)},
		{Name: "chat", Path: filepath.Join(dataDir, ChatFile)},
		{Name: "users", Path: filepath.Join(dataDir, UsersFile)},
	}
}

// Store opens the three independent SQLite files that make up local state.
// There is no cross-file transaction; each file is restorable on its own.
type Store struct {
	docs    *sql.DB
	chat    *sql.DB
	users   *sql.DB
	dataDir string

	// ftsReady is decided once at open and never re-probed.
	ftsReady bool
}

// NewStore opens (creating if needed) the stores in dataDir.
// If dataDir is empty, defaults to ~/.docagent/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{dataDir: dataDir}

	var err error
	if s.docs, err = openDB(filepath.Join(dataDir, DocumentsFile), migrations.Documents()); err != nil {
		return nil, err
	}
	if s.chat, err = openDB(filepath.Join(dataDir, ChatFile), migrations.Chat()); err != nil {
		s.docs.Close()
		return nil, err
	}
	if s.users, err = openDB(filepath.Join(dataDir, UsersFile), migrations.Users()); err != nil {
		s.docs.Close()
		s.chat.Close()
		return nil, err
	}

	s.ftsReady = ensureFTS(s.docs)
	return s, nil
}

// Close closes all database connections.
func (s *Store) Close() error {
	return errors.Join(s.docs.Close(), s.chat.Close(), s.users.Close())
}

// DataDir returns the directory holding the store files.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Files lists this store's files.
func (s *Store) Files() []domain.StoreFile {
	return Files(s.dataDir)
}

// FTSAvailable reports whether the ranked full-text index is maintained.
func (s *Store) FTSAvailable() bool {
	return s.ftsReady
}

// DocumentStore returns a DocumentStore backed by documents.db.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{db: s.docs, indexed: s.ftsReady}
}

// SearchBackend returns the ranked backend when the full-text index is
// available, otherwise the substring backend.
func (s *Store) SearchBackend() driven.SearchBackend {
	if s.ftsReady {
		return &rankedBackend{db: s.docs}
	}
	return s.FallbackBackend()
}

// FallbackBackend returns the substring backend.
func (s *Store) FallbackBackend() driven.SearchBackend {
	return &substringBackend{db: s.docs}
}

// ConversationStore returns a ConversationStore backed by chat.db.
func (s *Store) ConversationStore() driven.ConversationStore {
	return &conversationStore{db: s.chat}
}

// UserStore returns a UserStore backed by users.db.
func (s *Store) UserStore() driven.UserStore {
	return &userStore{db: s.users}
}

// openDB opens one store file and applies its migrations.
func openDB(path string, fsys fs.FS) (*sql.DB, error) {
	// WAL mode for concurrent readers alongside one writer; pragmas in the
	// DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}

	if err := migrate(db, fsys); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations for %s: %w", filepath.Base(path), err)
	}

	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ensureFTS creates the chunks_fts index if the SQLite build supports FTS5.
// The index is rebuilt from the chunks table whenever it holds a different
// number of entries, which covers a new index over existing chunks and
// chunks whose index insert failed.
func ensureFTS(db *sql.DB) bool {
	_, err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			text,
			content = 'chunks',
			content_rowid = 'id',
			tokenize = 'porter'
		)
	`)
	if err != nil {
		logger.Warn("full-text index unavailable, using substring search: %v", err)
		return false
	}

	var chunks, indexed int
	err = db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM chunks), (SELECT COUNT(*) FROM chunks_fts_docsize)
	`).Scan(&chunks, &indexed)
	if err != nil {
		logger.Warn("checking full-text index: %v", err)
		return true
	}

	if chunks != indexed {
		logger.Debug("rebuilding full-text index: %d chunks, %d indexed", chunks, indexed)
		if _, err := db.Exec("INSERT INTO chunks_fts(chunks_fts) VALUES ('rebuild')"); err != nil {
			logger.Warn("rebuilding full-text index: %v", err)
		}
	}

	logger.Debug("full-text index ready")
	return true
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
