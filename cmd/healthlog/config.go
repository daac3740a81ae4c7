package healthlog

import (
	"fmt"

	"github.com/janghjun/healthlog/internal/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect healthlog configuration",
}

// redacted hides API keys so config output can be pasted into bug reports.
func redacted(cfg app.Config) app.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	cfg.FoodAPI.APIKey = mask(cfg.FoodAPI.APIKey)
	cfg.DrugAPI.APIKey = mask(cfg.DrugAPI.APIKey)
	return cfg
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := app.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd)
}
