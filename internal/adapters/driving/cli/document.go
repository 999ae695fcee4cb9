package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentChunks bool

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Inspect indexed documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

func init() {
	documentShowCmd.Flags().BoolVar(&documentChunks, "chunks", false, "print every chunk")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed. Run 'docagent ingest <folder>' first.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %-6d %s (%d pages)\n", docs[i].ID, docs[i].Filename, docs[i].PageCount)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	doc, err := documentService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	chunks, err := documentService.Chunks(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	cmd.Printf("ID:       %d\n", doc.ID)
	cmd.Printf("File:     %s\n", doc.Filename)
	cmd.Printf("Path:     %s\n", doc.SourcePath)
	cmd.Printf("Pages:    %d\n", doc.PageCount)
	cmd.Printf("Chunks:   %d\n", len(chunks))
	cmd.Printf("Added:    %s\n", doc.AddedAt.Local().Format(timeLayout))

	if documentChunks {
		for _, c := range chunks {
			cmd.Printf("\n--- chunk %d ---\n%s\n", c.Ordinal, c.Text)
		}
	}
	return nil
}
