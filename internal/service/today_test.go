package service_test

import (
	"context"
	"testing"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

func TestTodayCombinesDomains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	if err := tr.Diet.SetGoals(ctx, model.DietGoals{Kcal: 250, Carb: 0, Protein: 45, Fat: 5}); err != nil {
		t.Fatalf("set goals: %v", err)
	}
	if _, err := tr.Diet.AddFood(ctx, "2024-05-01", model.Breakfast, chickenBreast()); err != nil {
		t.Fatalf("add food: %v", err)
	}
	if _, err := tr.Exercise.AddRecord(ctx, squat("2024-05-01", 60)); err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	med, err := tr.Medication.AddMedication(ctx, "2024-05-01", vitaminD())
	if err != nil {
		t.Fatalf("add medication: %v", err)
	}
	if _, _, err := tr.Medication.ToggleChecked(ctx, "2024-05-01", med.ID); err != nil {
		t.Fatalf("check medication: %v", err)
	}
	if _, err := tr.Medication.AddMedication(ctx, "2024-05-01", service.MedicationInput{Name: "마그네슘", Times: []string{"자기 전"}}); err != nil {
		t.Fatalf("add second medication: %v", err)
	}

	status, err := tr.Today("")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if status.Date != "2024-05-01" {
		t.Fatalf("expected clock date, got %s", status.Date)
	}
	if status.Kcal != 250 || status.RemainingKcal != 0 || !status.KcalOnTarget || !status.MacrosOnTarget {
		t.Fatalf("unexpected diet status %+v", status)
	}
	if status.ExerciseMin != 60 || status.ExerciseGoalMin != 60 || !status.ExerciseGoalMet {
		t.Fatalf("unexpected exercise status %+v", status)
	}
	if status.MedicationTotal != 2 || status.MedicationTaken != 1 {
		t.Fatalf("unexpected medication status %+v", status)
	}
	if status.NotificationsToday != 2 {
		t.Fatalf("expected food and exercise notifications, got %d", status.NotificationsToday)
	}
}

func TestTodayRejectsBadDate(t *testing.T) {
	t.Parallel()
	tr := newTestTracker(t)
	if _, err := tr.Today("yesterday"); err == nil {
		t.Fatalf("expected invalid date error")
	}
}

func TestAdherenceWithin(t *testing.T) {
	t.Parallel()
	cases := []struct {
		actual, target float64
		want           bool
	}{
		{1900, 2000, true},
		{2200, 2000, true},
		{2201, 2000, false},
		{0, 0, true},
		{5, 0, false},
	}
	for _, tc := range cases {
		if got := service.AdherenceWithin(tc.actual, tc.target, 0.10); got != tc.want {
			t.Fatalf("AdherenceWithin(%v, %v) = %v, want %v", tc.actual, tc.target, got, tc.want)
		}
	}
}
