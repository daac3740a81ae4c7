package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's intake, workouts, medication and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			status, err := tracker.Today(todayDate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", status.Date)
			fmt.Fprintf(out, "Intake: %.1f kcal (%d foods)\n", status.Kcal, status.FoodCount)
			fmt.Fprintf(out, "Macros: C %.1fg | P %.1fg | F %.1fg | Na %.1fmg\n", status.CarbG, status.ProteinG, status.FatG, status.SodiumMg)
			fmt.Fprintf(out, "Goal: %.0f kcal | C %.0fg | P %.0fg | F %.0fg\n", status.GoalKcal, status.GoalCarbG, status.GoalProteinG, status.GoalFatG)
			fmt.Fprintf(out, "Remaining: %.1f kcal | C %.1fg | P %.1fg | F %.1fg\n", status.RemainingKcal, status.RemainingCarbG, status.RemainingProteinG, status.RemainingFatG)
			fmt.Fprintf(out, "Exercise: %.0f/%d min\n", status.ExerciseMin, status.ExerciseGoalMin)
			fmt.Fprintf(out, "Medication: %d/%d taken\n", status.MedicationTaken, status.MedicationTotal)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
}
