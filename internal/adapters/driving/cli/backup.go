package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Mirror local stores to remote object storage",
	Long: `Local stores are pushed to an S3-compatible bucket after every change
and pulled at startup when missing locally.

Configure with 'docagent config set backup.endpoint ...' (also bucket,
access_key and secret_key) or the matching environment variables.`,
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a snapshot of every local store now",
	Args:  cobra.NoArgs,
	RunE:  runBackupPush,
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backup configuration and the last restore",
	Args:  cobra.NoArgs,
	RunE:  runBackupStatus,
}

func init() {
	backupCmd.AddCommand(backupPushCmd)
	backupCmd.AddCommand(backupStatusCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupPush(cmd *cobra.Command, _ []string) error {
	if backupService == nil {
		return errors.New("backup service not configured")
	}
	if !backupService.Enabled() {
		return domain.ErrBackupDisabled
	}

	report, err := backupService.Backup(cmd.Context())
	if report != nil {
		printSyncReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	return nil
}

func runBackupStatus(cmd *cobra.Command, _ []string) error {
	if backupService == nil {
		return errors.New("backup service not configured")
	}

	info := backupService.Info()
	if !info.Enabled {
		cmd.Println("Backup: disabled (endpoint, bucket, access key and secret key are all required)")
	} else {
		cmd.Printf("Backup: enabled\nTarget: %s\n", info.Target)
	}

	cmd.Println("Stores:")
	for _, f := range info.Files {
		cmd.Printf("  %-10s %s\n", f.Name, f.Path)
	}

	if current != nil && current.RestoreReport != nil {
		cmd.Println("\nStartup restore:")
		printSyncReport(cmd, current.RestoreReport)
	}
	return nil
}

func printSyncReport(cmd *cobra.Command, report *domain.SyncReport) {
	for _, f := range report.Files {
		cmd.Printf("  %-10s %s", f.File.Name, f.Outcome)
		if f.Err != nil {
			cmd.Printf(": %v", f.Err)
		}
		cmd.Println()
	}
	if n := report.Failed(); n > 0 {
		cmd.Printf("%d file(s) failed.\n", n)
	}
}
