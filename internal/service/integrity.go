package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

type DoctorReport struct {
	UnreadableKeys         []string `json:"unreadable_keys,omitempty"`
	ExerciseDateMismatches int      `json:"exercise_date_mismatches"`
	EmptyMedicationDates   int      `json:"empty_medication_dates"`
	InvalidMealSlots       int      `json:"invalid_meal_slots"`
	DuplicateIDs           int      `json:"duplicate_ids"`
	FixedExerciseRecords   int      `json:"fixed_exercise_records,omitempty"`
	PrunedMedicationDates  int      `json:"pruned_medication_dates,omitempty"`
	MovedMealEntries       int      `json:"moved_meal_entries,omitempty"`
}

// Doctor checks stored records for inconsistencies an import or an older
// client could have left behind. With fix it re-files exercise records under
// their own date, drops empty medication dates and moves entries of unknown
// meal slots to the 기타 slot.
func (t *Tracker) Doctor(ctx context.Context, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	for _, key := range StorageKeys {
		raw, ok, err := t.backend.Get(ctx, key)
		if err != nil {
			return report, fmt.Errorf("doctor read %s: %w", key, err)
		}
		if ok && strings.TrimSpace(raw) != "" && !json.Valid([]byte(raw)) {
			report.UnreadableKeys = append(report.UnreadableKeys, key)
		}
	}

	ids := map[string]int{}

	for date, items := range t.Exercise.records.Get() {
		for _, r := range items {
			ids["exercise:"+r.ID]++
			if r.Date != date {
				report.ExerciseDateMismatches++
			}
		}
	}
	for _, items := range t.Medication.meds.Get() {
		if len(items) == 0 {
			report.EmptyMedicationDates++
		}
		for _, m := range items {
			ids["medication:"+m.ID]++
		}
	}
	for _, day := range t.Diet.meals.Get() {
		for slot, items := range day {
			if !slot.Valid() {
				report.InvalidMealSlots += len(items)
			}
			for _, f := range items {
				ids["food:"+f.ID]++
			}
		}
	}
	for _, n := range ids {
		if n > 1 {
			report.DuplicateIDs += n - 1
		}
	}

	if !fix {
		return report, nil
	}

	var errs []error
	if report.ExerciseDateMismatches > 0 {
		err := t.Exercise.records.Update(ctx, func(records model.ExerciseStore) (model.ExerciseStore, error) {
			next := model.ExerciseStore{}
			for date, items := range records {
				if _, ok := next[date]; !ok {
					next[date] = []model.ExerciseRecord{}
				}
				for _, r := range items {
					target := date
					if r.Date != date {
						if _, err := store.ParseDate(r.Date); err == nil {
							target = r.Date
						} else {
							r.Date = date
						}
						report.FixedExerciseRecords++
					}
					next[target] = append(next[target], r)
				}
			}
			return next, nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("doctor fix exercise dates: %w", err))
		}
	}
	if report.EmptyMedicationDates > 0 {
		err := t.Medication.meds.Update(ctx, func(meds model.MedicationStore) (model.MedicationStore, error) {
			for date, items := range meds {
				if len(items) == 0 {
					delete(meds, date)
					report.PrunedMedicationDates++
				}
			}
			return meds, nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("doctor prune medication dates: %w", err))
		}
	}
	if report.InvalidMealSlots > 0 {
		err := t.Diet.meals.Update(ctx, func(meals model.MealStore) (model.MealStore, error) {
			for _, day := range meals {
				for slot, items := range day {
					if slot.Valid() {
						continue
					}
					day[model.Other] = append(day[model.Other], items...)
					report.MovedMealEntries += len(items)
					delete(day, slot)
				}
			}
			return meals, nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("doctor fix meal slots: %w", err))
		}
	}
	return report, joinErrors(errs...)
}
