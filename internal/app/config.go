package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDBPath     = "HEALTHLOG_DB"
	EnvLogLevel   = "HEALTHLOG_LOG_LEVEL"
	EnvListen     = "HEALTHLOG_LISTEN"
	EnvFoodAPIKey = "HEALTHLOG_FOOD_API_KEY"
	EnvDrugAPIKey = "HEALTHLOG_DRUG_API_KEY"

	DefaultListen   = "127.0.0.1:8080"
	DefaultLogLevel = "warn"
)

type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type Config struct {
	DBPath   string         `yaml:"db_path"`
	LogLevel string         `yaml:"log_level"`
	Listen   string         `yaml:"listen"`
	FoodAPI  ProviderConfig `yaml:"food_api"`
	DrugAPI  ProviderConfig `yaml:"drug_api"`
}

// LoadConfig reads the YAML config at path, then applies environment
// overrides. A missing file is fine unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := Config{}
	if strings.TrimSpace(path) == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg, os.Getenv)
	if err := cfg.fillDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files that exist; variables already
// set in the process win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDBPath)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvListen)); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(getenv(EnvFoodAPIKey)); v != "" {
		cfg.FoodAPI.APIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvDrugAPIKey)); v != "" {
		cfg.DrugAPI.APIKey = v
	}
}

func (c *Config) fillDefaults() error {
	if strings.TrimSpace(c.DBPath) == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return err
		}
		c.DBPath = p
	}
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = DefaultListen
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func ParseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", value)
	}
}

func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
