package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := newTestTracker(t)

	if _, err := src.Diet.AddFood(ctx, "2024-05-01", model.Breakfast, chickenBreast()); err != nil {
		t.Fatalf("add food: %v", err)
	}
	if _, err := src.Exercise.AddRecord(ctx, squat("2024-05-01", 30)); err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	snap, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, ok := snap.Data[service.KeyMeals]; !ok {
		t.Fatalf("expected meals in snapshot, got keys %v", snap.Data)
	}
	if _, ok := snap.Data[service.KeyMedications]; ok {
		t.Fatalf("expected never-written key to be left out")
	}

	path := filepath.Join(t.TempDir(), "export", "healthlog.json")
	if _, err := service.WriteSnapshotFile(path, snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	loaded, err := service.ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	dst := newTestTracker(t)
	report, err := dst.Import(ctx, loaded, service.ImportOptions{Mode: service.ImportModeFail})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Written != len(snap.Data) || report.Conflicts != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := dst.Diet.Summary("2024-05-01"); got.Kcal != 250 {
		t.Fatalf("expected imported diet, got %+v", got)
	}
	if got := dst.Exercise.Summary("2024-05-01"); got.DurationMin != 30 {
		t.Fatalf("expected imported exercise, got %+v", got)
	}
}

func TestImportModes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)
	if err := tr.Exercise.SetGoal(ctx, 30); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	snap := &service.Snapshot{Data: map[string]json.RawMessage{
		service.KeyExerciseGoal: json.RawMessage(`90`),
		service.KeySymptoms:     json.RawMessage(`["피로"]`),
		"legacyKey":             json.RawMessage(`{}`),
	}}

	if _, err := tr.Import(ctx, snap, service.ImportOptions{Mode: service.ImportModeFail}); err == nil {
		t.Fatalf("expected fail mode to refuse existing data")
	}
	if got := tr.Exercise.Goal(); got != 30 {
		t.Fatalf("expected goal untouched after refused import, got %d", got)
	}

	report, err := tr.Import(ctx, snap, service.ImportOptions{Mode: service.ImportModeSkip})
	if err != nil {
		t.Fatalf("skip import: %v", err)
	}
	if report.Written != 1 || report.Skipped != 2 || len(report.Warnings) != 1 {
		t.Fatalf("unexpected skip report %+v", report)
	}
	if tr.Exercise.Goal() != 30 || len(tr.Medication.Symptoms()) != 1 {
		t.Fatalf("expected goal kept and symptoms imported")
	}

	dry, err := tr.Import(ctx, snap, service.ImportOptions{Mode: service.ImportModeReplace, DryRun: true})
	if err != nil || dry.Written != 2 {
		t.Fatalf("dry run: %+v err=%v", dry, err)
	}
	if tr.Exercise.Goal() != 30 {
		t.Fatalf("expected dry run to leave data alone")
	}

	if _, err := tr.Import(ctx, snap, service.ImportOptions{Mode: service.ImportModeReplace}); err != nil {
		t.Fatalf("replace import: %v", err)
	}
	if got := tr.Exercise.Goal(); got != 90 {
		t.Fatalf("expected replaced goal 90, got %d", got)
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	t.Parallel()
	tr := newTestTracker(t)
	snap := &service.Snapshot{Data: map[string]json.RawMessage{service.KeyMeals: json.RawMessage(`{broken`)}}
	if _, err := tr.Import(context.Background(), snap, service.ImportOptions{Mode: service.ImportModeReplace}); err == nil {
		t.Fatalf("expected invalid JSON to be rejected")
	}
}

func TestReadSnapshotFileChecksumMismatch(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snap.json")
	if _, err := service.WriteSnapshotFile(path, &service.Snapshot{Data: map[string]json.RawMessage{}}); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"data":{}}`), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	_, err := service.ReadSnapshotFile(path)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestParseImportMode(t *testing.T) {
	t.Parallel()
	if mode, err := service.ParseImportMode(""); err != nil || mode != service.ImportModeFail {
		t.Fatalf("expected fail default, got %v %v", mode, err)
	}
	if _, err := service.ParseImportMode("merge"); err == nil {
		t.Fatalf("expected merge to be unsupported")
	}
}
