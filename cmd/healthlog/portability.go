package healthlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export local data (json snapshot or csv of meals)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				snap, err := tracker.Export(ctx)
				if err != nil {
					return err
				}
				checksum, err := service.WriteSnapshotFile(exportOut, snap)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", checksum)
			case "csv":
				if err := writeMealsCSV(exportOut, tracker); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q (use json or csv)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

func writeMealsCSV(path string, tracker *service.Tracker) error {
	presence := tracker.Diet.RecordPresence()
	dates := make([]string, 0, len(presence))
	for date := range presence {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export csv: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "slot", "id", "name", "weight", "kcal", "carb", "protein", "fat", "sodium"}); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	for _, date := range dates {
		day := tracker.Diet.MealsByDate(date)
		for _, slot := range model.MealSlots {
			for _, item := range day[slot] {
				record := []string{
					date,
					string(slot),
					item.ID,
					item.Name,
					formatNumber(item.Weight),
					formatNumber(item.Kcal),
					formatNumber(item.Carb),
					formatNumber(item.Protein),
					formatNumber(item.Fat),
					formatNumber(item.Sodium),
				}
				if err := w.Write(record); err != nil {
					return fmt.Errorf("write export csv row: %w", err)
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a json snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		snap, err := service.ReadSnapshotFile(importIn)
		if err != nil {
			return err
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			report, err := tracker.Import(ctx, snap, service.ImportOptions{Mode: mode, DryRun: importDryRun})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import report: written=%d skipped=%d conflicts=%d\n", report.Written, report.Skipped, report.Conflicts)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			if importDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Dry-run import validated %s\n", importIn)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported data from %s\n", importIn)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "fail", "Import mode: fail|skip|replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing data")
}
