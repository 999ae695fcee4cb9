package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// Snapshotter copies a live SQLite file with VACUUM INTO. The copy is a
// consistent, self-contained database (WAL contents included) and is taken
// on a short-lived connection of its own.
type Snapshotter struct{}

var _ driven.Snapshotter = Snapshotter{}

// Snapshot writes a consistent copy of the database at src to dst.
func (Snapshotter) Snapshot(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: snapshot source: %v", domain.ErrStorage, err)
	}

	db, err := sql.Open("sqlite", src+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", domain.ErrStorage, src, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return fmt.Errorf("%w: snapshotting %s: %v", domain.ErrStorage, src, err)
	}
	return nil
}
