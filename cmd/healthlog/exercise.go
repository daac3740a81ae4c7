package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage workout records",
}

var (
	exerciseName     string
	exercisePart     string
	exerciseDate     string
	exerciseDuration string
	exerciseSets     string
	exerciseReps     string
	exerciseWeight   string
	exerciseFavorite bool
)

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a workout record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			rec, err := tracker.Exercise.AddRecord(ctx, service.ExerciseInput{
				Name:     exerciseName,
				Part:     exercisePart,
				Date:     dateOrToday(exerciseDate),
				Duration: numberFlag(cmd, "duration", exerciseDuration),
				Sets:     exerciseSets,
				Reps:     exerciseReps,
				Weight:   exerciseWeight,
				Favorite: exerciseFavorite,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s min) id=%s\n", rec.Name, rec.Part, formatNumber(rec.Duration), rec.ID)
			return nil
		})
	},
}

var (
	exerciseListDate string
	exerciseListFrom string
	exerciseListTo   string
	exerciseListPart string
	exerciseListAll  bool
)

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout records for a day, a range or everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			var records []model.ExerciseRecord
			switch {
			case exerciseListAll:
				records = tracker.Exercise.AllRecords()
			case exerciseListFrom != "" || exerciseListTo != "":
				var err error
				records, err = tracker.Exercise.RecordsByRange(exerciseListFrom, exerciseListTo)
				if err != nil {
					return err
				}
			case exerciseListPart != "":
				records = tracker.Exercise.RecordsByPart(dateOrToday(exerciseListDate), exerciseListPart)
			default:
				records = tracker.Exercise.RecordsByDate(dateOrToday(exerciseListDate))
			}
			printExerciseRecords(cmd, records)
			return nil
		})
	},
}

func printExerciseRecords(cmd *cobra.Command, records []model.ExerciseRecord) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		rows = append(rows, []string{r.ID, r.Date, r.Name, r.Part, formatNumber(r.Duration), r.Sets, r.Reps, r.Weight, fav})
	}
	printTable(cmd.OutOrStdout(), "ID\tDATE\tNAME\tPART\tMIN\tSETS\tREPS\tWEIGHT\tFAV", rows)
}

var exerciseUpdateDate string

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a workout record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			rec, found, err := tracker.Exercise.UpdateRecord(ctx, dateOrToday(exerciseUpdateDate), args[0], service.ExercisePatch{
				Name:     stringFlag(cmd, "name", exerciseName),
				Part:     stringFlag(cmd, "part", exercisePart),
				Duration: numberFlag(cmd, "duration", exerciseDuration),
				Sets:     stringFlag(cmd, "sets", exerciseSets),
				Reps:     stringFlag(cmd, "reps", exerciseReps),
				Weight:   stringFlag(cmd, "weight", exerciseWeight),
			})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("workout %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s, %s min)\n", rec.Name, rec.Part, formatNumber(rec.Duration))
			return nil
		})
	},
}

var exerciseDeleteDate string

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			ok, err := tracker.Exercise.DeleteRecord(ctx, dateOrToday(exerciseDeleteDate), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("workout %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %s\n", args[0])
			return nil
		})
	},
}

var exerciseFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle the favorite flag on a workout record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			fav, found, err := tracker.Exercise.ToggleFavorite(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("workout %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workout %s favorite=%t\n", args[0], fav)
			return nil
		})
	},
}

var (
	exerciseSummaryDate string
	exerciseSummaryFrom string
	exerciseSummaryTo   string
)

var exerciseSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Sum workout minutes for a day or a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			label := dateOrToday(exerciseSummaryDate)
			sum := tracker.Exercise.Summary(label)
			if exerciseSummaryFrom != "" || exerciseSummaryTo != "" {
				var err error
				sum, err = tracker.Exercise.SummaryRange(exerciseSummaryFrom, exerciseSummaryTo)
				if err != nil {
					return err
				}
				label = exerciseSummaryFrom + ".." + exerciseSummaryTo
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", label)
			fmt.Fprintf(out, "Workouts: %d\n", sum.Count)
			fmt.Fprintf(out, "Minutes: %.0f (goal %d)\n", sum.DurationMin, tracker.Exercise.Goal())
			for _, part := range model.BodyParts {
				if minutes, ok := sum.ByPart[part]; ok {
					fmt.Fprintf(out, "  %s: %.0f\n", part, minutes)
				}
			}
			return nil
		})
	},
}

var exercisePartsDate string

var exercisePartsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Group a day's workouts by body part",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			grouped := tracker.Exercise.GroupedByPart(dateOrToday(exercisePartsDate))
			for _, part := range model.BodyParts {
				names := ""
				for i, r := range grouped[part] {
					if i > 0 {
						names += ", "
					}
					names += r.Name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", part, len(grouped[part]), names)
			}
			return nil
		})
	},
}

var exerciseGoalCmd = &cobra.Command{
	Use:   "goal [minutes]",
	Short: "Show or set the daily workout goal in minutes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			if len(args) == 1 {
				minutes, err := parseMinutesArg(args[0])
				if err != nil {
					return err
				}
				if err := tracker.Exercise.SetGoal(ctx, minutes); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exercise goal: %d min\n", tracker.Exercise.Goal())
			return nil
		})
	},
}

var exerciseSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage favorite and manually entered workouts",
}

var (
	savedKind     string
	savedName     string
	savedPart     string
	savedDuration string
	savedMET      string
	savedDesc     string
)

var exerciseSavedAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a workout as a favorite (default) or manual entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			duration := model.Number(model.ParseOrZero(savedDuration))
			switch savedKind {
			case "manual":
				item, added, err := tracker.Exercise.AddManualExercise(ctx, model.ManualExercise{Name: savedName, Part: savedPart, Duration: duration})
				if err != nil {
					return err
				}
				reportSaved(cmd, "manual workout", item.Name, item.ID, added)
			case "favorite", "":
				item, added, err := tracker.Exercise.AddFavoriteExercise(ctx, model.FavoriteExercise{
					Name:        savedName,
					Part:        savedPart,
					Duration:    duration,
					MET:         model.Number(model.ParseOrZero(savedMET)),
					Description: savedDesc,
				})
				if err != nil {
					return err
				}
				reportSaved(cmd, "favorite workout", item.Name, item.ID, added)
			default:
				return fmt.Errorf("invalid --kind %q (use favorite or manual)", savedKind)
			}
			return nil
		})
	},
}

var exerciseSavedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			rows := [][]string{}
			for _, f := range tracker.Exercise.FavoriteExercises() {
				rows = append(rows, []string{"favorite", f.ID, f.Name, f.Part, formatNumber(f.Duration)})
			}
			for _, m := range tracker.Exercise.ManualExercises() {
				rows = append(rows, []string{"manual", m.ID, m.Name, m.Part, formatNumber(m.Duration)})
			}
			printTable(cmd.OutOrStdout(), "KIND\tID\tNAME\tPART\tMIN", rows)
			return nil
		})
	},
}

var exerciseSavedToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Save a workout as a favorite, or unsave it if already saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			on, err := tracker.Exercise.ToggleFavoriteExercise(ctx, model.FavoriteExercise{
				Name:     savedName,
				Part:     savedPart,
				Duration: model.Number(model.ParseOrZero(savedDuration)),
			})
			if err != nil {
				return err
			}
			state := "removed from"
			if on {
				state = "added to"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s favorites\n", savedName, state)
			return nil
		})
	},
}

var exerciseSavedRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a saved workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			removedFav, err := tracker.Exercise.RemoveFavoriteExercise(ctx, args[0])
			if err != nil {
				return err
			}
			removedManual, err := tracker.Exercise.RemoveManualExercise(ctx, args[0])
			if err != nil {
				return err
			}
			if !removedFav && !removedManual {
				return fmt.Errorf("saved workout %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed saved workout %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseUpdateCmd, exerciseDeleteCmd, exerciseFavoriteCmd, exerciseSummaryCmd, exercisePartsCmd, exerciseGoalCmd, exerciseSavedCmd)
	exerciseSavedCmd.AddCommand(exerciseSavedAddCmd, exerciseSavedListCmd, exerciseSavedToggleCmd, exerciseSavedRemoveCmd)

	exerciseAddCmd.Flags().StringVar(&exerciseName, "name", "", "Workout name")
	exerciseAddCmd.Flags().StringVar(&exercisePart, "part", "", "Body part (가슴, 등, 하체, 어깨, 복근, 유산소, 기타)")
	exerciseAddCmd.Flags().StringVar(&exerciseDate, "date", "", "Date YYYY-MM-DD (default today)")
	exerciseAddCmd.Flags().StringVar(&exerciseDuration, "duration", "", "Duration in minutes")
	exerciseAddCmd.Flags().StringVar(&exerciseSets, "sets", "", "Sets")
	exerciseAddCmd.Flags().StringVar(&exerciseReps, "reps", "", "Reps")
	exerciseAddCmd.Flags().StringVar(&exerciseWeight, "weight", "", "Weight used")
	exerciseAddCmd.Flags().BoolVar(&exerciseFavorite, "favorite", false, "Mark the record as a favorite")

	exerciseListCmd.Flags().StringVar(&exerciseListDate, "date", "", "Date YYYY-MM-DD (default today)")
	exerciseListCmd.Flags().StringVar(&exerciseListFrom, "from", "", "Range start YYYY-MM-DD")
	exerciseListCmd.Flags().StringVar(&exerciseListTo, "to", "", "Range end YYYY-MM-DD")
	exerciseListCmd.Flags().StringVar(&exerciseListPart, "part", "", "Only records for this body part")
	exerciseListCmd.Flags().BoolVar(&exerciseListAll, "all", false, "List every record")

	exerciseUpdateCmd.Flags().StringVar(&exerciseUpdateDate, "date", "", "Date YYYY-MM-DD (default today)")
	exerciseUpdateCmd.Flags().StringVar(&exerciseName, "name", "", "Workout name")
	exerciseUpdateCmd.Flags().StringVar(&exercisePart, "part", "", "Body part")
	exerciseUpdateCmd.Flags().StringVar(&exerciseDuration, "duration", "", "Duration in minutes")
	exerciseUpdateCmd.Flags().StringVar(&exerciseSets, "sets", "", "Sets")
	exerciseUpdateCmd.Flags().StringVar(&exerciseReps, "reps", "", "Reps")
	exerciseUpdateCmd.Flags().StringVar(&exerciseWeight, "weight", "", "Weight used")

	exerciseDeleteCmd.Flags().StringVar(&exerciseDeleteDate, "date", "", "Date YYYY-MM-DD (default today)")

	exerciseSummaryCmd.Flags().StringVar(&exerciseSummaryDate, "date", "", "Date YYYY-MM-DD (default today)")
	exerciseSummaryCmd.Flags().StringVar(&exerciseSummaryFrom, "from", "", "Range start YYYY-MM-DD")
	exerciseSummaryCmd.Flags().StringVar(&exerciseSummaryTo, "to", "", "Range end YYYY-MM-DD")

	exercisePartsCmd.Flags().StringVar(&exercisePartsDate, "date", "", "Date YYYY-MM-DD (default today)")

	exerciseSavedAddCmd.Flags().StringVar(&savedKind, "kind", "favorite", "favorite or manual")
	exerciseSavedAddCmd.Flags().StringVar(&savedName, "name", "", "Workout name")
	exerciseSavedAddCmd.Flags().StringVar(&savedPart, "part", "", "Body part")
	exerciseSavedAddCmd.Flags().StringVar(&savedDuration, "duration", "", "Duration in minutes")
	exerciseSavedAddCmd.Flags().StringVar(&savedMET, "met", "", "MET value")
	exerciseSavedAddCmd.Flags().StringVar(&savedDesc, "description", "", "Description")

	exerciseSavedToggleCmd.Flags().StringVar(&savedName, "name", "", "Workout name")
	exerciseSavedToggleCmd.Flags().StringVar(&savedPart, "part", "", "Body part")
	exerciseSavedToggleCmd.Flags().StringVar(&savedDuration, "duration", "", "Duration in minutes")
}
