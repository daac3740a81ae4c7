package healthlog

import (
	"context"
	"fmt"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage favorite and manually entered foods",
}

var foodFavoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Manage favorite foods",
}

var foodManualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Manage manually entered foods",
}

// foodItemFlags binds the fields of a saved food.
type foodItemFlags struct {
	foodFlags
}

func (f *foodItemFlags) item(cmd *cobra.Command) model.FoodItem {
	in := f.input(cmd)
	value := func(n *model.Number) model.Number {
		if n == nil {
			return 0
		}
		return *n
	}
	return model.FoodItem{
		Name:    in.Name,
		Weight:  value(in.Weight),
		Kcal:    value(in.Kcal),
		Carb:    value(in.Carb),
		Protein: value(in.Protein),
		Fat:     value(in.Fat),
		Sodium:  value(in.Sodium),
	}
}

func printFoods(cmd *cobra.Command, items []model.FoodItem) {
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		rows = append(rows, []string{f.ID, f.Name, formatNumber(f.Weight), formatNumber(f.Kcal), formatNumber(f.Carb), formatNumber(f.Protein), formatNumber(f.Fat), formatNumber(f.Sodium)})
	}
	printTable(cmd.OutOrStdout(), "ID\tNAME\tWEIGHT\tKCAL\tCARB\tPROTEIN\tFAT\tSODIUM", rows)
}

func reportSaved(cmd *cobra.Command, noun, name, id string, added bool) {
	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s id=%s\n", noun, name, id)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s already saved id=%s\n", noun, name, id)
}

var favoriteFoodFlags foodItemFlags

var foodFavoriteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a favorite food",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			item, added, err := tracker.Diet.AddFavoriteFood(ctx, favoriteFoodFlags.item(cmd))
			if err != nil {
				return err
			}
			reportSaved(cmd, "favorite", item.Name, item.ID, added)
			return nil
		})
	},
}

var foodFavoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			printFoods(cmd, tracker.Diet.FavoriteFoods())
			return nil
		})
	},
}

var foodFavoriteRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a favorite food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			ok, err := tracker.Diet.RemoveFavoriteFood(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("favorite food %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed favorite %s\n", args[0])
			return nil
		})
	},
}

var manualFoodFlags foodItemFlags

var foodManualAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a manually entered food",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			item, added, err := tracker.Diet.AddManualFood(ctx, manualFoodFlags.item(cmd))
			if err != nil {
				return err
			}
			reportSaved(cmd, "manual food", item.Name, item.ID, added)
			return nil
		})
	},
}

var foodManualListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manually entered foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			printFoods(cmd, tracker.Diet.ManualFoods())
			return nil
		})
	},
}

var foodManualRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a manually entered food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			ok, err := tracker.Diet.RemoveManualFood(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("manual food %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed manual food %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodFavoriteCmd, foodManualCmd)
	foodFavoriteCmd.AddCommand(foodFavoriteAddCmd, foodFavoriteListCmd, foodFavoriteRemoveCmd)
	foodManualCmd.AddCommand(foodManualAddCmd, foodManualListCmd, foodManualRemoveCmd)

	favoriteFoodFlags.bind(foodFavoriteAddCmd)
	manualFoodFlags.bind(foodManualAddCmd)
}
