package healthlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var medCmd = &cobra.Command{
	Use:   "med",
	Short: "Manage medication schedules",
}

var (
	medDate   string
	medName   string
	medType   string
	medDosage string
	medUsage  string
	medTimes  string
	medMemo   string
)

var medAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a medication for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			med, err := tracker.Medication.AddMedication(ctx, dateOrToday(medDate), service.MedicationInput{
				Name:   medName,
				Type:   medType,
				Dosage: medDosage,
				Usage:  medUsage,
				Times:  splitList(medTimes),
				Memo:   medMemo,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) id=%s\n", med.Name, strings.Join(med.Times, ", "), med.ID)
			return nil
		})
	},
}

var medUpdateDate string

var medUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a scheduled medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			patch := service.MedicationPatch{
				Name:   stringFlag(cmd, "name", medName),
				Type:   stringFlag(cmd, "type", medType),
				Dosage: stringFlag(cmd, "dosage", medDosage),
				Usage:  stringFlag(cmd, "usage", medUsage),
				Memo:   stringFlag(cmd, "memo", medMemo),
			}
			if cmd.Flags().Changed("times") {
				times := splitList(medTimes)
				patch.Times = &times
			}
			med, found, err := tracker.Medication.UpdateMedication(ctx, dateOrToday(medUpdateDate), args[0], patch)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("medication %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", med.Name, strings.Join(med.Times, ", "))
			return nil
		})
	},
}

var (
	medListDate string
	medListFrom string
	medListTo   string
)

var medListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			var meds []model.Medication
			if medListFrom != "" || medListTo != "" {
				var err error
				meds, err = tracker.Medication.MedicationsByRange(medListFrom, medListTo)
				if err != nil {
					return err
				}
			} else {
				meds = tracker.Medication.MedicationsByDate(dateOrToday(medListDate))
			}
			rows := make([][]string, 0, len(meds))
			for _, m := range meds {
				taken := "no"
				if m.Checked {
					taken = "yes"
				}
				rows = append(rows, []string{m.ID, m.Name, strings.Join(m.Times, ","), m.Dosage, taken, m.Memo})
			}
			printTable(cmd.OutOrStdout(), "ID\tNAME\tTIMES\tDOSAGE\tTAKEN\tMEMO", rows)
			return nil
		})
	},
}

var medCheckDate string

var medCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Toggle whether a scheduled medication was taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			checked, found, err := tracker.Medication.ToggleChecked(ctx, dateOrToday(medCheckDate), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("medication %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medication %s taken=%t\n", args[0], checked)
			return nil
		})
	},
}

var medDeleteDate string

var medDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scheduled medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			ok, err := tracker.Medication.DeleteMedication(ctx, dateOrToday(medDeleteDate), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("medication %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted medication %s\n", args[0])
			return nil
		})
	},
}

var (
	adherenceFrom string
	adherenceTo   string
)

var medAdherenceCmd = &cobra.Command{
	Use:   "adherence",
	Short: "Report how many scheduled medications were taken",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adherenceFrom == "" || adherenceTo == "" {
			return fmt.Errorf("--from and --to are required")
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			r, err := tracker.Medication.Adherence(adherenceFrom, adherenceTo)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Taken: %d/%d (%.0f%%)\n", r.Taken, r.Total, r.Rate*100)
			for _, t := range model.DoseTimes {
				fmt.Fprintf(out, "  %s: %d/%d\n", t, r.CheckedByTime[t], r.ByTime[t])
			}
			for i, top := range r.Top {
				fmt.Fprintf(out, "%d. %s (%d)\n", i+1, top.Name, top.Count)
			}
			return nil
		})
	},
}

var medFavoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Manage favorite medications",
}

var medFavoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			rows := [][]string{}
			for _, f := range tracker.Medication.Favorites() {
				rows = append(rows, []string{f.ID, f.Name, f.Company, f.Ingredient})
			}
			printTable(cmd.OutOrStdout(), "ID\tNAME\tCOMPANY\tINGREDIENT", rows)
			return nil
		})
	},
}

var (
	medFavID         string
	medFavName       string
	medFavCompany    string
	medFavIngredient string
)

var medFavoriteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a favorite medication",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			fav, added, err := tracker.Medication.AddFavorite(ctx, model.FavoriteMedication{
				ID:         medFavID,
				Name:       medFavName,
				Company:    medFavCompany,
				Ingredient: medFavIngredient,
			})
			if err != nil {
				return err
			}
			reportSaved(cmd, "favorite medication", fav.Name, fav.ID, added)
			return nil
		})
	},
}

var medFavoriteRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a favorite medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			ok, err := tracker.Medication.RemoveFavorite(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("favorite medication %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed favorite medication %s\n", args[0])
			return nil
		})
	},
}

var medSymptomsSet string

var medSymptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "Show or set symptoms and the supplements they suggest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			if cmd.Flags().Changed("set") {
				if err := tracker.Medication.SetSymptoms(ctx, splitList(medSymptomsSet)); err != nil {
					return err
				}
			}
			symptoms := tracker.Medication.Symptoms()
			fmt.Fprintf(cmd.OutOrStdout(), "Symptoms: %s\n", strings.Join(symptoms, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Suggested: %s\n", strings.Join(service.RecommendSupplements(symptoms), ", "))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(medCmd)
	medCmd.AddCommand(medAddCmd, medUpdateCmd, medListCmd, medCheckCmd, medDeleteCmd, medAdherenceCmd, medFavoriteCmd, medSymptomsCmd)
	medFavoriteCmd.AddCommand(medFavoriteListCmd, medFavoriteAddCmd, medFavoriteRemoveCmd)

	medAddCmd.Flags().StringVar(&medDate, "date", "", "Date YYYY-MM-DD (default today)")
	medAddCmd.Flags().StringVar(&medName, "name", "", "Medication name")
	medAddCmd.Flags().StringVar(&medType, "type", "", "Medication type")
	medAddCmd.Flags().StringVar(&medDosage, "dosage", "", "Dosage")
	medAddCmd.Flags().StringVar(&medUsage, "usage", "", "Usage")
	medAddCmd.Flags().StringVar(&medTimes, "times", "", "Comma-separated dose times (아침, 점심, 저녁, 자기 전)")
	medAddCmd.Flags().StringVar(&medMemo, "memo", "", "Memo")

	medUpdateCmd.Flags().StringVar(&medUpdateDate, "date", "", "Date YYYY-MM-DD (default today)")
	medUpdateCmd.Flags().StringVar(&medName, "name", "", "Medication name")
	medUpdateCmd.Flags().StringVar(&medType, "type", "", "Medication type")
	medUpdateCmd.Flags().StringVar(&medDosage, "dosage", "", "Dosage")
	medUpdateCmd.Flags().StringVar(&medUsage, "usage", "", "Usage")
	medUpdateCmd.Flags().StringVar(&medTimes, "times", "", "Comma-separated dose times")
	medUpdateCmd.Flags().StringVar(&medMemo, "memo", "", "Memo")

	medListCmd.Flags().StringVar(&medListDate, "date", "", "Date YYYY-MM-DD (default today)")
	medListCmd.Flags().StringVar(&medListFrom, "from", "", "Range start YYYY-MM-DD")
	medListCmd.Flags().StringVar(&medListTo, "to", "", "Range end YYYY-MM-DD")

	medCheckCmd.Flags().StringVar(&medCheckDate, "date", "", "Date YYYY-MM-DD (default today)")
	medDeleteCmd.Flags().StringVar(&medDeleteDate, "date", "", "Date YYYY-MM-DD (default today)")

	medAdherenceCmd.Flags().StringVar(&adherenceFrom, "from", "", "Range start YYYY-MM-DD")
	medAdherenceCmd.Flags().StringVar(&adherenceTo, "to", "", "Range end YYYY-MM-DD")

	medFavoriteAddCmd.Flags().StringVar(&medFavID, "seq", "", "Product sequence number")
	medFavoriteAddCmd.Flags().StringVar(&medFavName, "name", "", "Product name")
	medFavoriteAddCmd.Flags().StringVar(&medFavCompany, "company", "", "Manufacturer")
	medFavoriteAddCmd.Flags().StringVar(&medFavIngredient, "ingredient", "", "Ingredients")

	medSymptomsCmd.Flags().StringVar(&medSymptomsSet, "set", "", "Comma-separated symptoms to store")
}
