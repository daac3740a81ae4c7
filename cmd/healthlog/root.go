package healthlog

import (
	"fmt"
	"os"

	"github.com/janghjun/healthlog/internal/app"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "healthlog",
	Short:         "healthlog tracks meals, workouts and medication from your terminal",
	Long:          "healthlog is a local-first diet, exercise and medication log with daily summaries, favorites, reminders and a JSON API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := app.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
