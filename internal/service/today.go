package service

import (
	"strings"
)

// DefaultTolerance is the relative band around a diet goal that still
// counts as on target.
const DefaultTolerance = 0.10

type TodayStatus struct {
	Date               string  `json:"date"`
	Kcal               float64 `json:"kcal"`
	CarbG              float64 `json:"carb_g"`
	ProteinG           float64 `json:"protein_g"`
	FatG               float64 `json:"fat_g"`
	SodiumMg           float64 `json:"sodium_mg"`
	FoodCount          int     `json:"food_count"`
	GoalKcal           float64 `json:"goal_kcal"`
	GoalCarbG          float64 `json:"goal_carb_g"`
	GoalProteinG       float64 `json:"goal_protein_g"`
	GoalFatG           float64 `json:"goal_fat_g"`
	RemainingKcal      float64 `json:"remaining_kcal"`
	RemainingCarbG     float64 `json:"remaining_carb_g"`
	RemainingProteinG  float64 `json:"remaining_protein_g"`
	RemainingFatG      float64 `json:"remaining_fat_g"`
	KcalOnTarget       bool    `json:"kcal_on_target"`
	MacrosOnTarget     bool    `json:"macros_on_target"`
	ExerciseMin        float64 `json:"exercise_min"`
	ExerciseGoalMin    int     `json:"exercise_goal_min"`
	ExerciseGoalMet    bool    `json:"exercise_goal_met"`
	MedicationTotal    int     `json:"medication_total"`
	MedicationTaken    int     `json:"medication_taken"`
	NotificationsToday int     `json:"notifications_today"`
}

// Today combines the day's diet totals, exercise minutes and medication
// doses with the stored goals. An empty date means today in UTC.
func (t *Tracker) Today(date string) (*TodayStatus, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = utcDate(t.now())
	}
	date, err := validateDate("today", date)
	if err != nil {
		return nil, err
	}

	diet := t.Diet.Summary(date)
	goals := t.Diet.Goals()
	status := &TodayStatus{
		Date:         date,
		Kcal:         diet.Kcal,
		CarbG:        diet.Carb,
		ProteinG:     diet.Protein,
		FatG:         diet.Fat,
		SodiumMg:     diet.Sodium,
		FoodCount:    diet.Count,
		GoalKcal:     goals.Kcal.Float(),
		GoalCarbG:    goals.Carb.Float(),
		GoalProteinG: goals.Protein.Float(),
		GoalFatG:     goals.Fat.Float(),
	}
	status.RemainingKcal = status.GoalKcal - status.Kcal
	status.RemainingCarbG = status.GoalCarbG - status.CarbG
	status.RemainingProteinG = status.GoalProteinG - status.ProteinG
	status.RemainingFatG = status.GoalFatG - status.FatG
	status.KcalOnTarget = AdherenceWithin(status.Kcal, status.GoalKcal, DefaultTolerance)
	status.MacrosOnTarget = AdherenceWithin(status.CarbG, status.GoalCarbG, DefaultTolerance) &&
		AdherenceWithin(status.ProteinG, status.GoalProteinG, DefaultTolerance) &&
		AdherenceWithin(status.FatG, status.GoalFatG, DefaultTolerance)

	status.ExerciseMin = t.Exercise.Summary(date).DurationMin
	status.ExerciseGoalMin = t.Exercise.Goal()
	status.ExerciseGoalMet = status.ExerciseMin >= float64(status.ExerciseGoalMin)

	for _, med := range t.Medication.MedicationsByDate(date) {
		status.MedicationTotal++
		if med.Checked {
			status.MedicationTaken++
		}
	}
	status.NotificationsToday = len(t.Notifications.ForDate(date))
	return status, nil
}

// AdherenceWithin reports whether actual is within tolerance (a fraction)
// of target. A zero target only accepts zero.
func AdherenceWithin(actual float64, target float64, tolerance float64) bool {
	if target == 0 {
		return actual == 0
	}
	lower := target * (1 - tolerance)
	upper := target * (1 + tolerance)
	return actual >= lower && actual <= upper
}
