package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := "db_path: /tmp/from-yaml.db\nlog_level: debug\nfood_api:\n  base_url: http://food.local\n  api_key: yaml-key\n"
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvListen, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDrugAPIKey, "")
	t.Setenv(EnvFoodAPIKey, "env-key")

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/from-yaml.db" {
		t.Fatalf("expected yaml db path, got %q", cfg.DBPath)
	}
	if cfg.FoodAPI.BaseURL != "http://food.local" || cfg.FoodAPI.APIKey != "env-key" {
		t.Fatalf("expected env to override api key, got %+v", cfg.FoodAPI)
	}
	if cfg.Listen != DefaultListen {
		t.Fatalf("expected default listen, got %q", cfg.Listen)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadConfig(missing, false)
	if err != nil {
		t.Fatalf("optional missing config should load: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" || cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := LoadConfig(missing, true); err == nil {
		t.Fatalf("expected error for required missing config")
	}
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvLogLevel, "")
	if _, err := LoadConfig(path, true); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("HEALTHLOG_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("HEALTHLOG_TEST_DOTENV", "")
	os.Unsetenv("HEALTHLOG_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("HEALTHLOG_TEST_DOTENV"); got != "loaded" {
		t.Fatalf("expected dotenv value, got %q", got)
	}
}
