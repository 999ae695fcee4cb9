// Package sqlite provides the SQLite-backed implementations of the store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Local state is split across three independent files so
// each can be backed up and restored on its own:
//
//   - documents.db: documents, chunks and the chunks_fts full-text index
//   - chat.db: conversations and messages
//   - users.db: user accounts
//
// # Schema
//
// Each file has its own directory of versioned migrations under migrations/.
// The FTS5 index is created at open time instead; when the SQLite build lacks
// FTS5 the store falls back to substring search for the process lifetime.
//
// # Data Location
//
// By default, the files are stored under ~/.docagent/data/
//
// # Thread Safety
//
// All operations are thread-safe. SQLite in WAL mode serialises writers;
// the store adds no locking of its own.
package sqlite
