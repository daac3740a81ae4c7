package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

// Storage keys, one JSON document each.
const (
	KeyMeals                = "meals"
	KeyManualFoods          = "manualFoods"
	KeyFavoriteFoods        = "favoriteFoods"
	KeyDietGoals            = "dietGoals"
	KeyExerciseData         = "exerciseData"
	KeyManualExercises      = "manualExercises"
	KeyFavoriteExercises    = "favoriteExercises"
	KeyExerciseGoal         = "exerciseGoal"
	KeyMedications          = "medications"
	KeySymptoms             = "symptoms"
	KeyFavoriteMeds         = "favoriteMeds"
	KeyNotificationLogs     = "notificationLogs"
	KeyNotificationSettings = "notificationSettings"
)

// StorageKeys lists every key the tracker owns, in export order.
var StorageKeys = []string{
	KeyMeals, KeyManualFoods, KeyFavoriteFoods, KeyDietGoals,
	KeyExerciseData, KeyManualExercises, KeyFavoriteExercises, KeyExerciseGoal,
	KeyMedications, KeySymptoms, KeyFavoriteMeds,
	KeyNotificationLogs, KeyNotificationSettings,
}

type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

type env struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func newEnv(opts Options) env {
	e := env{logger: opts.Logger, now: opts.Now, newID: opts.NewID}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

type loader interface {
	Key() string
	Load(ctx context.Context)
}

// Tracker owns the persisted state of every domain. Build one per process
// and hand it to whatever presents the data.
type Tracker struct {
	Diet          *Diet
	Exercise      *Exercise
	Medication    *Medication
	Notifications *Notifications

	env
	backend store.Backend
	values  []loader
}

// Open builds the tracker on backend and loads every storage key. Load
// failures are logged and leave the affected domain empty.
func Open(ctx context.Context, backend store.Backend, opts Options) *Tracker {
	e := newEnv(opts)
	t := &Tracker{env: e, backend: backend}

	t.Notifications = newNotifications(e, backend)
	t.Diet = newDiet(e, backend, t.Notifications)
	t.Exercise = newExercise(e, backend, t.Notifications)
	t.Medication = newMedication(e, backend)

	t.values = []loader{
		t.Diet.meals, t.Diet.manual.value, t.Diet.favorites.value, t.Diet.goals,
		t.Exercise.records, t.Exercise.manual.value, t.Exercise.favorites.value, t.Exercise.goal,
		t.Medication.meds, t.Medication.symptoms, t.Medication.favorites.value,
		t.Notifications.logs, t.Notifications.settings,
	}
	t.Reload(ctx)
	return t
}

// Reload re-reads every storage key from the backend.
func (t *Tracker) Reload(ctx context.Context) {
	for _, v := range t.values {
		v.Load(ctx)
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func identity[T any](v T) T {
	return v
}

func cloneMealStore(in model.MealStore) model.MealStore {
	out := make(model.MealStore, len(in))
	for date, day := range in {
		out[date] = cloneDayMeals(day)
	}
	return out
}

func cloneDayMeals(in model.DayMeals) model.DayMeals {
	out := make(model.DayMeals, len(in))
	for slot, items := range in {
		out[slot] = cloneSlice(items)
	}
	return out
}

func cloneExerciseStore(in model.ExerciseStore) model.ExerciseStore {
	out := make(model.ExerciseStore, len(in))
	for date, items := range in {
		out[date] = cloneSlice(items)
	}
	return out
}

func cloneMedication(m model.Medication) model.Medication {
	m.Times = append([]string(nil), m.Times...)
	return m
}

func cloneMedications(in []model.Medication) []model.Medication {
	out := make([]model.Medication, len(in))
	for i, m := range in {
		out[i] = cloneMedication(m)
	}
	return out
}

func cloneMedicationStore(in model.MedicationStore) model.MedicationStore {
	out := make(model.MedicationStore, len(in))
	for date, items := range in {
		out[date] = cloneMedications(items)
	}
	return out
}
