package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Inspect reminder logs and settings",
}

var notifyListDate string

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			var logs []model.NotificationLog
			if notifyListDate != "" {
				logs = tracker.Notifications.ForDate(notifyListDate)
			} else {
				logs = tracker.Notifications.List()
			}
			rows := make([][]string, 0, len(logs))
			for _, l := range logs {
				rows = append(rows, []string{l.Date, l.Time, l.Type, l.Title})
			}
			printTable(cmd.OutOrStdout(), "DATE\tTIME\tTYPE\tTITLE", rows)
			return nil
		})
	},
}

var notifyToggleCmd = &cobra.Command{
	Use:   "toggle <diet|medication|exercise>",
	Short: "Turn a reminder kind on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := service.ParseNotificationKind(args[0])
		if err != nil {
			return err
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			s, err := tracker.Notifications.Toggle(ctx, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "diet=%t medication=%t exercise=%t\n", s.Diet, s.Medication, s.Exercise)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyListCmd, notifyToggleCmd)
	notifyListCmd.Flags().StringVar(&notifyListDate, "date", "", "Only reminders logged for this date")
}
