package healthlog

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/service"
	"github.com/janghjun/healthlog/internal/store"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Weekly and monthly diet, exercise and medication reports",
}

var (
	reportJSON  bool
	reportWeek  string
	reportMonth string
)

var isoWeekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

var reportWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Report one ISO week",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := resolveWeekRange(reportWeek)
		if err != nil {
			return err
		}
		return runReport(cmd, start, end)
	},
}

var reportMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Report one calendar month",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := resolveMonthRange(reportMonth)
		if err != nil {
			return err
		}
		return runReport(cmd, start, end)
	},
}

type periodReport struct {
	From       string                  `json:"from"`
	To         string                  `json:"to"`
	Diet       service.DietSummary     `json:"diet"`
	Days       []service.DaySummary    `json:"days"`
	Exercise   service.ExerciseSummary `json:"exercise"`
	Medication service.AdherenceReport `json:"medication"`
}

func buildReport(tracker *service.Tracker, from, to string) (*periodReport, error) {
	r := &periodReport{From: from, To: to}
	var err error
	if r.Diet, err = tracker.Diet.SummaryRange(from, to); err != nil {
		return nil, err
	}
	if r.Days, err = tracker.Diet.DailySeries(from, to); err != nil {
		return nil, err
	}
	if r.Exercise, err = tracker.Exercise.SummaryRange(from, to); err != nil {
		return nil, err
	}
	if r.Medication, err = tracker.Medication.Adherence(from, to); err != nil {
		return nil, err
	}
	return r, nil
}

func runReport(cmd *cobra.Command, start, end time.Time) error {
	from, to := store.FormatDate(start), store.FormatDate(end)
	return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
		r, err := buildReport(tracker, from, to)
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(cmd, r)
		}
		printReport(cmd, r, tracker.Diet.Goals().Kcal.Float())
		return nil
	})
}

func printReport(cmd *cobra.Command, r *periodReport, goalKcal float64) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Period: %s..%s\n", r.From, r.To)
	days := len(r.Days)
	avg := 0.0
	if days > 0 {
		avg = r.Diet.Kcal / float64(days)
	}
	fmt.Fprintf(out, "Calories: %.1f kcal total, %.1f kcal/day (goal %.0f)\n", r.Diet.Kcal, avg, goalKcal)
	maxKcal := goalKcal
	for _, d := range r.Days {
		maxKcal = math.Max(maxKcal, d.Kcal)
	}
	for _, d := range r.Days {
		fmt.Fprintf(out, "  %s %7.1f %s\n", d.Date, d.Kcal, horizontalBar(d.Kcal, maxKcal, 20))
	}
	fmt.Fprintf(out, "Exercise: %.0f min over %d workouts\n", r.Exercise.DurationMin, r.Exercise.Count)
	fmt.Fprintf(out, "Medication: %d/%d taken (%.0f%%)\n", r.Medication.Taken, r.Medication.Total, r.Medication.Rate*100)
}

func horizontalBar(value, scale float64, width int) string {
	if width <= 0 || scale <= 0 || value <= 0 {
		return ""
	}
	bars := int(math.Round(value / scale * float64(width)))
	if bars == 0 {
		bars = 1
	}
	return strings.Repeat("#", bars)
}

// resolveWeekRange parses YYYY-Www as an ISO week; empty means this week.
func resolveWeekRange(week string) (time.Time, time.Time, error) {
	if week == "" {
		start := beginningOfWeek(time.Now().UTC())
		return start, start.AddDate(0, 0, 6), nil
	}
	if !isoWeekPattern.MatchString(week) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (expected YYYY-Www)", week)
	}
	var year, weekNum int
	if _, err := fmt.Sscanf(week, "%4d-W%2d", &year, &weekNum); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (expected YYYY-Www)", week)
	}
	maxWeek := weeksInISOYear(year)
	if weekNum < 1 || weekNum > maxWeek {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (week must be between 01 and %02d for %d)", week, maxWeek, year)
	}
	start := isoWeekStart(year, weekNum)
	return start, start.AddDate(0, 0, 6), nil
}

// resolveMonthRange parses YYYY-MM; empty means this month.
func resolveMonthRange(month string) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --month value %q (expected YYYY-MM)", month)
		}
		start = parsed
	}
	return start, start.AddDate(0, 1, -1), nil
}

func beginningOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	return beginningOfWeek(jan4).AddDate(0, 0, (week-1)*7)
}

func weeksInISOYear(year int) int {
	_, wk := time.Date(year, 12, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return wk
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportWeekCmd, reportMonthCmd)
	reportCmd.PersistentFlags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
	reportWeekCmd.Flags().StringVar(&reportWeek, "week", "", "ISO week YYYY-Www (default this week)")
	reportMonthCmd.Flags().StringVar(&reportMonth, "month", "", "Month YYYY-MM (default this month)")
}
