package healthlog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage database backups",
}

var (
	backupOut    string
	backupDir    string
	restoreFile  string
	restoreForce bool
)

func backupDirFor(dbFile string) string {
	if backupDir != "" {
		return backupDir
	}
	return filepath.Join(filepath.Dir(dbFile), "backups")
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Copy the database file with a checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		out := backupOut
		if out == "" {
			out = filepath.Join(backupDirFor(dbFile), fmt.Sprintf("healthlog-%s.db", time.Now().UTC().Format("20060102-150405")))
		}
		info, err := service.CreateBackup(dbFile, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(backupDirFor(dbFile))
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{it.Path, fmt.Sprint(it.SizeBytes), it.CreatedAt.UTC().Format(time.RFC3339), it.Checksum})
		}
		printTable(cmd.OutOrStdout(), "FILE\tSIZE\tCREATED\tCHECKSUM", rows)
		return nil
	},
}

// backupRestoreCmd copies the backup over the database and then loads it
// once so a broken file is reported immediately.
var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the database from a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := service.RestoreBackup(restoreFile, dbFile, restoreForce); err != nil {
			return err
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			report, err := tracker.Doctor(ctx, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s\n", restoreFile)
			if n := len(report.UnreadableKeys); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %d unreadable keys, run doctor\n", n)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup output file path")
	backupCreateCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (used when --out is empty)")
	backupListCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: alongside DB under backups/)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite existing DB if present")
}
