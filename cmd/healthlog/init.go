package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local healthlog database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return openTracker(cmd, cfg, func(ctx context.Context, _ *service.Tracker, kv *db.KV) error {
			keys, err := kv.Keys(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized healthlog database at %s (%d stored keys)\n", cfg.DBPath, len(keys))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
