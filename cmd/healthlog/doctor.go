package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var (
	doctorFix  bool
	doctorKeys bool
)

// printStoredKeys lists each storage key with how many times it was written.
func printStoredKeys(ctx context.Context, cmd *cobra.Command, kv *db.KV) error {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		writes, err := kv.Version(ctx, key)
		if err != nil {
			return err
		}
		rows = append(rows, []string{key, fmt.Sprint(writes)})
	}
	printTable(cmd.OutOrStdout(), "KEY\tWRITES", rows)
	return nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return openTracker(cmd, cfg, func(ctx context.Context, tracker *service.Tracker, kv *db.KV) error {
			if doctorKeys {
				if err := printStoredKeys(ctx, cmd, kv); err != nil {
					return err
				}
			}
			report, err := tracker.Doctor(ctx, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range report.UnreadableKeys {
				fmt.Fprintf(out, "Unreadable key: %s\n", key)
			}
			fmt.Fprintf(out, "Exercise date mismatches: %d\n", report.ExerciseDateMismatches)
			fmt.Fprintf(out, "Empty medication dates: %d\n", report.EmptyMedicationDates)
			fmt.Fprintf(out, "Invalid meal slots: %d\n", report.InvalidMealSlots)
			fmt.Fprintf(out, "Duplicate ids: %d\n", report.DuplicateIDs)
			if doctorFix {
				fmt.Fprintf(out, "Fixed exercise records: %d\n", report.FixedExerciseRecords)
				fmt.Fprintf(out, "Pruned medication dates: %d\n", report.PrunedMedicationDates)
				fmt.Fprintf(out, "Moved meal entries: %d\n", report.MovedMealEntries)
				report, err = tracker.Doctor(ctx, false)
				if err != nil {
					return err
				}
			}
			if len(report.UnreadableKeys) > 0 || report.ExerciseDateMismatches > 0 || report.EmptyMedicationDates > 0 ||
				report.InvalidMealSlots > 0 || report.DuplicateIDs > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt safe auto-fixes")
	doctorCmd.Flags().BoolVar(&doctorKeys, "keys", false, "List storage keys with their write counts")
}
