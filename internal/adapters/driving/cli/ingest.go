package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/connectors/filesystem"
	"github.com/custodia-labs/docagent/internal/core/domain"
)

var (
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Index the PDFs in a folder",
	Long: `Walks the folder recursively and indexes every PDF not seen before.
Files already ingested from the same path are skipped.

With --watch, keeps running and re-indexes when PDFs are added or written.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the folder for new PDFs")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", filesystem.DefaultDebounce, "quiet period before re-indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	root := args[0]
	if err := ingestOnce(cmd.Context(), cmd, root); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)...\n", root)
	watcher := filesystem.NewWatcher(root, ingestDebounce)
	return watcher.Watch(ctx, func(ctx context.Context) {
		if err := ingestOnce(ctx, cmd, root); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	})
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, root string) error {
	report, err := documentService.IngestFolder(ctx, root)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestReport(cmd, report)
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Printf("Added %d document(s), %d chunk(s); skipped %d.\n",
		report.DocumentsAdded, report.ChunksAdded, report.Skipped)
	if len(report.Failures) == 0 {
		return
	}
	cmd.Printf("Failed %d file(s):\n", len(report.Failures))
	for _, f := range report.Failures {
		cmd.Printf("  %s: %v\n", f.Path, f.Err)
	}
}
