// Package migrations embeds SQL migration files for the SQLite stores.
// Each store file has its own directory of numbered migrations.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed documents/*.sql chat/*.sql users/*.sql
var files embed.FS

// Documents returns the migrations for documents.db.
func Documents() fs.FS { return sub("documents") }

// Chat returns the migrations for chat.db.
func Chat() fs.FS { return sub("chat") }

// Users returns the migrations for users.db.
func Users() fs.FS { return sub("users") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err) // directories are fixed at compile time
	}
	return f
}
