package healthlog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var dietCmd = &cobra.Command{
	Use:   "diet",
	Short: "Manage meal entries",
}

// foodFlags binds the nutrient flags shared by add and update. Values are
// free text so a blank or non-numeric value is accepted and counts as 0.
type foodFlags struct {
	name, weight, kcal, carb, protein, fat, sodium string
}

func (f *foodFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Food name")
	cmd.Flags().StringVar(&f.weight, "weight", "", "Weight or servings")
	cmd.Flags().StringVar(&f.kcal, "kcal", "", "Calories")
	cmd.Flags().StringVar(&f.carb, "carb", "", "Carbohydrate grams")
	cmd.Flags().StringVar(&f.protein, "protein", "", "Protein grams")
	cmd.Flags().StringVar(&f.fat, "fat", "", "Fat grams")
	cmd.Flags().StringVar(&f.sodium, "sodium", "", "Sodium milligrams")
}

func (f *foodFlags) input(cmd *cobra.Command) service.FoodInput {
	return service.FoodInput{
		Name:    f.name,
		Weight:  numberFlag(cmd, "weight", f.weight),
		Kcal:    numberFlag(cmd, "kcal", f.kcal),
		Carb:    numberFlag(cmd, "carb", f.carb),
		Protein: numberFlag(cmd, "protein", f.protein),
		Fat:     numberFlag(cmd, "fat", f.fat),
		Sodium:  numberFlag(cmd, "sodium", f.sodium),
	}
}

func (f *foodFlags) patch(cmd *cobra.Command) service.FoodPatch {
	p := service.FoodPatch{
		Weight:  numberFlag(cmd, "weight", f.weight),
		Kcal:    numberFlag(cmd, "kcal", f.kcal),
		Carb:    numberFlag(cmd, "carb", f.carb),
		Protein: numberFlag(cmd, "protein", f.protein),
		Fat:     numberFlag(cmd, "fat", f.fat),
		Sodium:  numberFlag(cmd, "sodium", f.sodium),
	}
	if cmd.Flags().Changed("name") {
		name := f.name
		p.Name = &name
	}
	return p
}

// inputFromItem fills a diet entry from a saved food.
func inputFromItem(item model.FoodItem) service.FoodInput {
	return service.FoodInput{
		Name:    item.Name,
		Weight:  model.NumberOf(item.Weight.Float()),
		Kcal:    model.NumberOf(item.Kcal.Float()),
		Carb:    model.NumberOf(item.Carb.Float()),
		Protein: model.NumberOf(item.Protein.Float()),
		Fat:     model.NumberOf(item.Fat.Float()),
		Sodium:  model.NumberOf(item.Sodium.Float()),
	}
}

var (
	dietAddFlags    foodFlags
	dietAddDate     string
	dietAddSlot     string
	dietAddFavorite string
)

var dietAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food to a meal slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			in := dietAddFlags.input(cmd)
			if ref := strings.TrimSpace(dietAddFavorite); ref != "" {
				item, ok := findFood(tracker.Diet.FavoriteFoods(), ref)
				if !ok {
					return fmt.Errorf("favorite food %q not found", ref)
				}
				in = inputFromItem(item)
			}
			item, err := tracker.Diet.AddFood(ctx, dateOrToday(dietAddDate), model.MealSlot(strings.TrimSpace(dietAddSlot)), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s (%s kcal) id=%s\n", item.Name, dietAddSlot, formatNumber(item.Kcal), item.ID)
			return nil
		})
	},
}

func findFood(items []model.FoodItem, ref string) (model.FoodItem, bool) {
	for _, item := range items {
		if item.ID == ref || item.Name == ref {
			return item, true
		}
	}
	return model.FoodItem{}, false
}

var dietListDate string

var dietListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's meals in slot order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			day := tracker.Diet.MealsByDate(dateOrToday(dietListDate))
			rows := [][]string{}
			for _, slot := range model.MealSlots {
				for _, f := range day[slot] {
					rows = append(rows, []string{string(slot), f.ID, f.Name, formatNumber(f.Weight), formatNumber(f.Kcal), formatNumber(f.Carb), formatNumber(f.Protein), formatNumber(f.Fat), formatNumber(f.Sodium)})
				}
			}
			printTable(cmd.OutOrStdout(), "SLOT\tID\tNAME\tWEIGHT\tKCAL\tCARB\tPROTEIN\tFAT\tSODIUM", rows)
			return nil
		})
	},
}

var (
	dietUpdateFlags foodFlags
	dietUpdateDate  string
	dietUpdateSlot  string
)

var dietUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a meal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			item, found, err := tracker.Diet.UpdateFood(ctx, dateOrToday(dietUpdateDate), model.MealSlot(dietUpdateSlot), args[0], dietUpdateFlags.patch(cmd))
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("entry %s not found in %s", args[0], dietUpdateSlot)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", item.ID)
			return nil
		})
	},
}

var (
	dietDeleteDate  string
	dietDeleteSlot  string
	dietDeleteIndex bool
)

var dietDeleteCmd = &cobra.Command{
	Use:   "delete <id|index>",
	Short: "Delete a meal entry by id, or by position with --index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			date := dateOrToday(dietDeleteDate)
			slot := model.MealSlot(dietDeleteSlot)
			var (
				ok  bool
				err error
			)
			if dietDeleteIndex {
				idx, convErr := strconv.Atoi(args[0])
				if convErr != nil {
					return fmt.Errorf("invalid index %q", args[0])
				}
				ok, err = tracker.Diet.RemoveFoodAt(ctx, date, slot, idx)
			} else {
				ok, err = tracker.Diet.DeleteFood(ctx, date, slot, args[0])
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("entry %s not found in %s", args[0], dietDeleteSlot)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s\n", args[0])
			return nil
		})
	},
}

var (
	dietSummaryDate  string
	dietSummaryFrom  string
	dietSummaryTo    string
	dietSummaryDaily bool
)

var dietSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Sum calories and nutrients for a day or a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			out := cmd.OutOrStdout()
			if dietSummaryFrom == "" && dietSummaryTo == "" {
				date := dateOrToday(dietSummaryDate)
				printDietSummary(cmd, date, tracker.Diet.Summary(date))
				return nil
			}
			if dietSummaryFrom == "" || dietSummaryTo == "" {
				return fmt.Errorf("--from and --to must be used together")
			}
			if dietSummaryDaily {
				series, err := tracker.Diet.DailySeries(dietSummaryFrom, dietSummaryTo)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "DATE\tKCAL\tCARB\tPROTEIN\tFAT\tSODIUM\tCOUNT")
				for _, d := range series {
					fmt.Fprintf(out, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\n", d.Date, d.Kcal, d.Carb, d.Protein, d.Fat, d.Sodium, d.Count)
				}
				return nil
			}
			sum, err := tracker.Diet.SummaryRange(dietSummaryFrom, dietSummaryTo)
			if err != nil {
				return err
			}
			printDietSummary(cmd, dietSummaryFrom+".."+dietSummaryTo, sum)
			return nil
		})
	},
}

func printDietSummary(cmd *cobra.Command, label string, s service.DietSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Date: %s\n", label)
	fmt.Fprintf(out, "Entries: %d\n", s.Count)
	fmt.Fprintf(out, "Calories: %.1f kcal\n", s.Kcal)
	fmt.Fprintf(out, "Carbs: %.1fg | Protein: %.1fg | Fat: %.1fg\n", s.Carb, s.Protein, s.Fat)
	fmt.Fprintf(out, "Sodium: %.1fmg\n", s.Sodium)
}

var dietPresenceCmd = &cobra.Command{
	Use:   "presence",
	Short: "List dates that have meal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			printPresence(cmd, tracker.Diet.RecordPresence())
			return nil
		})
	},
}

func printPresence(cmd *cobra.Command, presence map[string]bool) {
	dates := make([]string, 0, len(presence))
	for date, ok := range presence {
		if ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	for _, date := range dates {
		fmt.Fprintln(cmd.OutOrStdout(), date)
	}
}

var dietGoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show daily diet goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			g := tracker.Diet.Goals()
			fmt.Fprintf(cmd.OutOrStdout(), "Goal: %s kcal | C %sg | P %sg | F %sg\n", formatNumber(g.Kcal), formatNumber(g.Carb), formatNumber(g.Protein), formatNumber(g.Fat))
			return nil
		})
	},
}

var (
	goalKcal    string
	goalCarb    string
	goalProtein string
	goalFat     string
)

var dietGoalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set daily diet goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			g := tracker.Diet.Goals()
			if v := numberFlag(cmd, "kcal", goalKcal); v != nil {
				g.Kcal = *v
			}
			if v := numberFlag(cmd, "carb", goalCarb); v != nil {
				g.Carb = *v
			}
			if v := numberFlag(cmd, "protein", goalProtein); v != nil {
				g.Protein = *v
			}
			if v := numberFlag(cmd, "fat", goalFat); v != nil {
				g.Fat = *v
			}
			if err := tracker.Diet.SetGoals(ctx, g); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated diet goals")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dietCmd)
	dietCmd.AddCommand(dietAddCmd, dietListCmd, dietUpdateCmd, dietDeleteCmd, dietSummaryCmd, dietPresenceCmd, dietGoalCmd)
	dietGoalCmd.AddCommand(dietGoalSetCmd)

	dietAddFlags.bind(dietAddCmd)
	dietAddCmd.Flags().StringVar(&dietAddDate, "date", "", "Date YYYY-MM-DD (default today)")
	dietAddCmd.Flags().StringVar(&dietAddSlot, "slot", "", "Meal slot: 아침, 점심, 저녁 or 기타")
	dietAddCmd.Flags().StringVar(&dietAddFavorite, "favorite", "", "Log a favorite food by id or name")

	dietListCmd.Flags().StringVar(&dietListDate, "date", "", "Date YYYY-MM-DD (default today)")

	dietUpdateFlags.bind(dietUpdateCmd)
	dietUpdateCmd.Flags().StringVar(&dietUpdateDate, "date", "", "Date YYYY-MM-DD (default today)")
	dietUpdateCmd.Flags().StringVar(&dietUpdateSlot, "slot", "", "Meal slot")

	dietDeleteCmd.Flags().StringVar(&dietDeleteDate, "date", "", "Date YYYY-MM-DD (default today)")
	dietDeleteCmd.Flags().StringVar(&dietDeleteSlot, "slot", "", "Meal slot")
	dietDeleteCmd.Flags().BoolVar(&dietDeleteIndex, "index", false, "Treat the argument as a position in the slot")

	dietSummaryCmd.Flags().StringVar(&dietSummaryDate, "date", "", "Date YYYY-MM-DD (default today)")
	dietSummaryCmd.Flags().StringVar(&dietSummaryFrom, "from", "", "Range start YYYY-MM-DD")
	dietSummaryCmd.Flags().StringVar(&dietSummaryTo, "to", "", "Range end YYYY-MM-DD")
	dietSummaryCmd.Flags().BoolVar(&dietSummaryDaily, "daily", false, "Print one row per day in the range")

	dietGoalSetCmd.Flags().StringVar(&goalKcal, "kcal", "", "Calories")
	dietGoalSetCmd.Flags().StringVar(&goalCarb, "carb", "", "Carbohydrate grams")
	dietGoalSetCmd.Flags().StringVar(&goalProtein, "protein", "", "Protein grams")
	dietGoalSetCmd.Flags().StringVar(&goalFat, "fat", "", "Fat grams")
}
