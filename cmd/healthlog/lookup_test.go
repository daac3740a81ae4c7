package healthlog

import (
	"strings"
	"testing"

	"github.com/janghjun/healthlog/internal/app"
)

func TestResolveAPIKeyPriority(t *testing.T) {
	t.Parallel()
	cfg := app.ProviderConfig{APIKey: " from-config "}
	if got := resolveAPIKey("flag", cfg); got != "flag" {
		t.Fatalf("expected flag value to win, got %q", got)
	}
	if got := resolveAPIKey("  ", cfg); got != "from-config" {
		t.Fatalf("expected config fallback, got %q", got)
	}
	if got := resolveAPIKey("", app.ProviderConfig{}); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

func TestDataPortalHelpTextNamesSetup(t *testing.T) {
	t.Parallel()
	out := dataPortalHelpText(drugDatasetName, app.EnvDrugAPIKey)
	for _, want := range []string{"data.go.kr", drugDatasetName, app.EnvDrugAPIKey, "--api-key"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help text missing %q: %s", want, out)
		}
	}
}

func TestLookupFoodWithoutKeyExplainsSetup(t *testing.T) {
	tempDB(t)
	t.Setenv(app.EnvFoodAPIKey, "")
	_, _, err := runCLI(t, "lookup", "food", "김치")
	if err == nil || !strings.Contains(err.Error(), app.EnvFoodAPIKey) {
		t.Fatalf("expected missing key guidance, got %v", err)
	}
}
