package healthlog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/janghjun/healthlog/internal/api"
	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/spf13/cobra"
)

var (
	serveListen  string
	serveOrigins string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for a local front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		listen := cfg.Listen
		if strings.TrimSpace(serveListen) != "" {
			listen = serveListen
		}
		logger := commandLogger(cmd, cfg)
		return openTracker(cmd, cfg, func(ctx context.Context, tracker *service.Tracker, _ *db.KV) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              listen,
				Handler:           api.NewRouter(tracker, api.Options{Logger: logger, AllowedOrigins: splitList(serveOrigins)}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving healthlog API on http://%s\n", listen)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve api: %w", err)
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown api: %w", err)
			}
			logger.Info("api stopped")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config, 127.0.0.1:8080)")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "", "Comma-separated allowed CORS origins (default *)")
}
