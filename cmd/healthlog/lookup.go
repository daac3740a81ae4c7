package healthlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/janghjun/healthlog/internal/app"
	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/provider/drugprmsn"
	"github.com/janghjun/healthlog/internal/provider/foodnutri"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Search public food nutrition and drug product data",
}

const (
	dataPortalURL   = "https://www.data.go.kr"
	foodDatasetName = "전국통합식품영양성분정보(가공식품)표준데이터"
	drugDatasetName = "의약품 제품 허가정보"
	dataPortalQuota = "Development keys have a daily request quota shown on the dataset page."
)

var (
	lookupAPIKey string
	lookupJSON   bool
	lookupLimit  int
	lookupPages  int
	lookupSave   bool
	lookupSlot   string
	lookupDate   string
)

// resolveAPIKey prefers the flag, then the configured key (which already
// includes the environment override).
func resolveAPIKey(flagValue string, cfg app.ProviderConfig) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.APIKey)
}

func dataPortalHelpText(dataset, envVar string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request a service key for %q at %s.\n", dataset, dataPortalURL)
	fmt.Fprintf(&b, "Set it with --api-key, %s, or the config file.\n", envVar)
	b.WriteString(dataPortalQuota + "\n")
	return b.String()
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lookup json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

var lookupFoodCmd = &cobra.Command{
	Use:   "food <name>",
	Short: "Search processed-food nutrition by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		key := resolveAPIKey(lookupAPIKey, cfg.FoodAPI)
		if key == "" {
			return fmt.Errorf("missing food nutrition API key\n%s", dataPortalHelpText(foodDatasetName, app.EnvFoodAPIKey))
		}
		client := &foodnutri.Client{APIKey: key, BaseURL: cfg.FoodAPI.BaseURL}
		items, err := client.Search(cmd.Context(), args[0], lookupLimit)
		if err != nil {
			return err
		}
		if lookupJSON {
			return printJSON(cmd, items)
		}
		rows := make([][]string, 0, len(items))
		for _, f := range items {
			rows = append(rows, []string{f.Code, f.Name, f.Reference, fmt.Sprintf("%.1f", f.Kcal), fmt.Sprintf("%.1f", f.Carb), fmt.Sprintf("%.1f", f.Protein), fmt.Sprintf("%.1f", f.Fat), fmt.Sprintf("%.1f", f.Sodium)})
		}
		printTable(cmd.OutOrStdout(), "CODE\tNAME\tPER\tKCAL\tCARB\tPROTEIN\tFAT\tSODIUM", rows)
		if len(items) == 0 || (!lookupSave && lookupSlot == "") {
			return nil
		}
		first := items[0]
		return openTracker(cmd, cfg, func(ctx context.Context, tracker *service.Tracker, _ *db.KV) error {
			if lookupSave {
				fav, added, err := tracker.Diet.AddFavoriteFood(ctx, first.Favorite())
				if err != nil {
					return err
				}
				reportSaved(cmd, "favorite", fav.Name, fav.ID, added)
			}
			if lookupSlot != "" {
				item, err := tracker.Diet.AddFood(ctx, dateOrToday(lookupDate), model.MealSlot(lookupSlot), first.FoodInput())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s id=%s\n", item.Name, lookupSlot, item.ID)
			}
			return nil
		})
	},
}

var lookupDrugCmd = &cobra.Command{
	Use:   "drug <keyword>",
	Short: "Search approved drug products by name or ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		key := resolveAPIKey(lookupAPIKey, cfg.DrugAPI)
		if key == "" {
			return fmt.Errorf("missing drug product API key\n%s", dataPortalHelpText(drugDatasetName, app.EnvDrugAPIKey))
		}
		client := &drugprmsn.Client{APIKey: key, BaseURL: cfg.DrugAPI.BaseURL}
		products, err := client.Search(cmd.Context(), args[0], lookupPages)
		if err != nil {
			return err
		}
		if lookupLimit > 0 && len(products) > lookupLimit {
			products = products[:lookupLimit]
		}
		if lookupJSON {
			return printJSON(cmd, products)
		}
		rows := make([][]string, 0, len(products))
		for _, p := range products {
			rows = append(rows, []string{p.Seq, p.Name, p.Company, p.Class})
		}
		printTable(cmd.OutOrStdout(), "SEQ\tNAME\tCOMPANY\tCLASS", rows)
		if len(products) == 0 || !lookupSave {
			return nil
		}
		return withTracker(cmd, func(ctx context.Context, tracker *service.Tracker) error {
			fav, added, err := tracker.Medication.AddFavorite(ctx, products[0].Favorite())
			if err != nil {
				return err
			}
			reportSaved(cmd, "favorite medication", fav.Name, fav.ID, added)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.AddCommand(lookupFoodCmd, lookupDrugCmd)

	lookupCmd.PersistentFlags().StringVar(&lookupAPIKey, "api-key", "", "Data portal service key")
	lookupCmd.PersistentFlags().BoolVar(&lookupJSON, "json", false, "Print results as JSON")
	lookupCmd.PersistentFlags().IntVar(&lookupLimit, "limit", 5, "Maximum results")
	lookupCmd.PersistentFlags().BoolVar(&lookupSave, "save", false, "Save the first result as a favorite")

	lookupFoodCmd.Flags().StringVar(&lookupSlot, "add-to", "", "Log the first result to this meal slot")
	lookupFoodCmd.Flags().StringVar(&lookupDate, "date", "", "Date for --add-to (default today)")
	lookupDrugCmd.Flags().IntVar(&lookupPages, "pages", 10, "Maximum pages of 100 products to scan")
}
