package healthlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/app"
	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/janghjun/healthlog/internal/store"
	"github.com/spf13/cobra"
)

// loadConfig reads the config file and lets the global flags override it.
func loadConfig() (app.Config, error) {
	cfg, err := app.LoadConfig(configPath, strings.TrimSpace(configPath) != "")
	if err != nil {
		return app.Config{}, err
	}
	if strings.TrimSpace(dbPath) != "" {
		cfg.DBPath = dbPath
	}
	if strings.TrimSpace(logLevel) != "" {
		if _, err := app.ParseLogLevel(logLevel); err != nil {
			return app.Config{}, err
		}
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func resolveDBPath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DBPath, nil
}

func commandLogger(cmd *cobra.Command, cfg app.Config) *slog.Logger {
	return app.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
}

// withTracker opens the database, applies migrations and hands run a tracker
// loaded from it.
func withTracker(cmd *cobra.Command, run func(context.Context, *service.Tracker) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return openTracker(cmd, cfg, func(ctx context.Context, tracker *service.Tracker, _ *db.KV) error {
		return run(ctx, tracker)
	})
}

func openTracker(cmd *cobra.Command, cfg app.Config, run func(context.Context, *service.Tracker, *db.KV) error) error {
	if err := app.EnsureDBDir(cfg.DBPath); err != nil {
		return err
	}
	sqldb, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv := db.NewKV(sqldb)
	tracker := service.Open(ctx, kv, service.Options{Logger: commandLogger(cmd, cfg)})
	return run(ctx, tracker, kv)
}

func dateOrToday(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return store.FormatDate(time.Now().UTC())
	}
	return date
}

// numberFlag reads a free-text numeric flag. Text that does not parse counts
// as 0; an unset flag is nil.
func numberFlag(cmd *cobra.Command, name, value string) *model.Number {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return model.NumberOf(model.ParseOrZero(value))
}

// stringFlag returns nil when the flag was not given, so an update leaves
// the field alone.
func stringFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMinutesArg(value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q", value)
	}
	if v < 0 {
		return 0, fmt.Errorf("minutes must be >= 0")
	}
	return v, nil
}

func formatNumber(n model.Number) string {
	return strconv.FormatFloat(n.Float(), 'f', -1, 64)
}

func printTable(w io.Writer, header string, rows [][]string) {
	fmt.Fprintln(w, header)
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}
