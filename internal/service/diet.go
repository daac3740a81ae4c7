package service

import (
	"context"
	"fmt"
	"time"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

// FoodInput is a new food entry. Every nutrient must be present; a present
// value that did not parse as a number is stored as 0.
type FoodInput struct {
	Name    string        `json:"name"`
	Weight  *model.Number `json:"weight"`
	Kcal    *model.Number `json:"kcal"`
	Carb    *model.Number `json:"carb"`
	Protein *model.Number `json:"protein"`
	Fat     *model.Number `json:"fat"`
	Sodium  *model.Number `json:"sodium"`
}

// FoodPatch holds the fields to overwrite on an existing entry.
type FoodPatch struct {
	Name    *string       `json:"name,omitempty"`
	Weight  *model.Number `json:"weight,omitempty"`
	Kcal    *model.Number `json:"kcal,omitempty"`
	Carb    *model.Number `json:"carb,omitempty"`
	Protein *model.Number `json:"protein,omitempty"`
	Fat     *model.Number `json:"fat,omitempty"`
	Sodium  *model.Number `json:"sodium,omitempty"`
}

type DietSummary struct {
	Kcal    float64 `json:"kcal"`
	Carb    float64 `json:"carb"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Sodium  float64 `json:"sodium"`
	Count   int     `json:"count"`
}

func (s DietSummary) add(o DietSummary) DietSummary {
	return DietSummary{
		Kcal:    s.Kcal + o.Kcal,
		Carb:    s.Carb + o.Carb,
		Protein: s.Protein + o.Protein,
		Fat:     s.Fat + o.Fat,
		Sodium:  s.Sodium + o.Sodium,
		Count:   s.Count + o.Count,
	}
}

type DaySummary struct {
	Date string `json:"date"`
	DietSummary
}

type Diet struct {
	env
	notify    *Notifications
	meals     *store.Value[model.MealStore]
	goals     *store.Value[model.DietGoals]
	manual    *namedList[model.FoodItem]
	favorites *namedList[model.FoodItem]
}

func newDiet(e env, backend store.Backend, notify *Notifications) *Diet {
	foodName := func(f model.FoodItem) string { return normalizeName(f.Name) }
	foodID := func(f model.FoodItem) string { return f.ID }
	stampFood := func(f model.FoodItem, id string, at time.Time) model.FoodItem {
		f.ID = id
		f.CreatedAt = at
		f.Name = normalizeName(f.Name)
		return f
	}
	return &Diet{
		env:    e,
		notify: notify,
		meals: store.NewValue(KeyMeals, backend, e.logger,
			func() model.MealStore { return model.MealStore{} }, cloneMealStore),
		goals: store.NewValue(KeyDietGoals, backend, e.logger,
			model.DefaultDietGoals, identity[model.DietGoals]),
		manual:    newNamedList(e, backend, KeyManualFoods, "manual food", singleKey(foodName), foodID, stampFood),
		favorites: newNamedList(e, backend, KeyFavoriteFoods, "favorite food", singleKey(foodName), foodID, stampFood),
	}
}

func validateSlot(op string, slot model.MealSlot) error {
	if slot == "" {
		return &ValidationError{Op: op, Field: "slot"}
	}
	if !slot.Valid() {
		return fmt.Errorf("%s: invalid meal slot %q", op, slot)
	}
	return nil
}

func (in FoodInput) validate(op string) error {
	if normalizeName(in.Name) == "" {
		return &ValidationError{Op: op, Field: "name"}
	}
	fields := []struct {
		name  string
		value *model.Number
	}{
		{"weight", in.Weight},
		{"kcal", in.Kcal},
		{"carb", in.Carb},
		{"protein", in.Protein},
		{"fat", in.Fat},
		{"sodium", in.Sodium},
	}
	for _, f := range fields {
		if f.value == nil {
			return &ValidationError{Op: op, Field: f.name}
		}
	}
	return nil
}

func (in FoodInput) item() model.FoodItem {
	return model.FoodItem{
		Name:    normalizeName(in.Name),
		Weight:  numberOr(0, in.Weight),
		Kcal:    numberOr(0, in.Kcal),
		Carb:    numberOr(0, in.Carb),
		Protein: numberOr(0, in.Protein),
		Fat:     numberOr(0, in.Fat),
		Sodium:  numberOr(0, in.Sodium),
	}
}

// AddFood appends a food entry to date's slot and logs a diet notification.
// When only the write fails the created item is returned with the error.
func (d *Diet) AddFood(ctx context.Context, date string, slot model.MealSlot, in FoodInput) (model.FoodItem, error) {
	const op = "add food"
	date, err := validateDate(op, date)
	if err != nil {
		return model.FoodItem{}, err
	}
	if err := validateSlot(op, slot); err != nil {
		return model.FoodItem{}, err
	}
	if err := in.validate(op); err != nil {
		return model.FoodItem{}, err
	}

	item := in.item()
	item.ID = d.newID()
	item.CreatedAt = d.now().UTC()

	err = d.meals.Update(ctx, func(meals model.MealStore) (model.MealStore, error) {
		day := meals[date]
		if day == nil {
			day = model.DayMeals{}
		}
		day[slot] = append(day[slot], item)
		meals[date] = day
		return meals, nil
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
	}

	var logErr error
	if d.notify != nil {
		_, logErr = d.notify.Log(ctx, NotificationInput{
			Title: item.Name + " 식단 알림",
			Date:  utcDate(d.now()),
			Time:  string(slot),
			Type:  KindDiet.Label(),
		})
	}
	return item, joinErrors(err, logErr)
}

// UpdateFood merges patch into the entry with id. A missing entry is left
// alone and reported as not found.
func (d *Diet) UpdateFood(ctx context.Context, date string, slot model.MealSlot, id string, patch FoodPatch) (model.FoodItem, bool, error) {
	var updated model.FoodItem
	found := false
	err := d.meals.Update(ctx, func(meals model.MealStore) (model.MealStore, error) {
		items := meals[date][slot]
		for i := range items {
			if items[i].ID != id {
				continue
			}
			f := items[i]
			if patch.Name != nil {
				f.Name = normalizeName(*patch.Name)
			}
			f.Weight = numberOr(f.Weight, patch.Weight)
			f.Kcal = numberOr(f.Kcal, patch.Kcal)
			f.Carb = numberOr(f.Carb, patch.Carb)
			f.Protein = numberOr(f.Protein, patch.Protein)
			f.Fat = numberOr(f.Fat, patch.Fat)
			f.Sodium = numberOr(f.Sodium, patch.Sodium)
			items[i] = f
			updated = f
			found = true
			return meals, nil
		}
		return nil, errNoChange
	})
	if err = ignoreNoChange(err); err != nil {
		return updated, found, fmt.Errorf("update food: %w", err)
	}
	return updated, found, nil
}

// DeleteFood removes the entry with id. The slot list stays, possibly empty.
func (d *Diet) DeleteFood(ctx context.Context, date string, slot model.MealSlot, id string) (bool, error) {
	removed := false
	err := d.meals.Update(ctx, func(meals model.MealStore) (model.MealStore, error) {
		day, ok := meals[date]
		if !ok {
			return nil, errNoChange
		}
		kept := make([]model.FoodItem, 0, len(day[slot]))
		for _, f := range day[slot] {
			if f.ID == id {
				removed = true
				continue
			}
			kept = append(kept, f)
		}
		if !removed {
			return nil, errNoChange
		}
		day[slot] = kept
		return meals, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return removed, fmt.Errorf("delete food: %w", err)
	}
	return removed, nil
}

// RemoveFoodAt removes the entry at a position in the slot list. An index
// outside the list changes nothing.
func (d *Diet) RemoveFoodAt(ctx context.Context, date string, slot model.MealSlot, index int) (bool, error) {
	removed := false
	err := d.meals.Update(ctx, func(meals model.MealStore) (model.MealStore, error) {
		day, ok := meals[date]
		if !ok || index < 0 || index >= len(day[slot]) {
			return nil, errNoChange
		}
		items := day[slot]
		day[slot] = append(items[:index:index], items[index+1:]...)
		removed = true
		return meals, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return removed, fmt.Errorf("remove food: %w", err)
	}
	return removed, nil
}

// MealsByDate returns the slot map for date, empty when nothing is logged.
func (d *Diet) MealsByDate(date string) model.DayMeals {
	day := d.meals.Get()[date]
	if day == nil {
		return model.DayMeals{}
	}
	return day
}

func (d *Diet) FoodsByDateAndSlot(date string, slot model.MealSlot) []model.FoodItem {
	items := d.MealsByDate(date)[slot]
	if items == nil {
		return []model.FoodItem{}
	}
	return items
}

// Summary totals every entry of date across the four meal slots.
func (d *Diet) Summary(date string) DietSummary {
	return summarizeDay(d.meals.Get()[date])
}

func summarizeDay(day model.DayMeals) DietSummary {
	var s DietSummary
	for _, slot := range model.MealSlots {
		for _, f := range day[slot] {
			s.Kcal += f.Kcal.Float()
			s.Carb += f.Carb.Float()
			s.Protein += f.Protein.Float()
			s.Fat += f.Fat.Float()
			s.Sodium += f.Sodium.Float()
			s.Count++
		}
	}
	return s
}

// SummaryRange totals every day from start to end inclusive.
func (d *Diet) SummaryRange(start, end string) (DietSummary, error) {
	meals := d.meals.Get()
	var total DietSummary
	err := store.EachDate(start, end, func(date string) {
		total = total.add(summarizeDay(meals[date]))
	})
	if err != nil {
		return DietSummary{}, fmt.Errorf("summarize diet: %w", err)
	}
	return total, nil
}

// DailySeries returns one summary per day from start to end inclusive.
func (d *Diet) DailySeries(start, end string) ([]DaySummary, error) {
	meals := d.meals.Get()
	out := []DaySummary{}
	err := store.EachDate(start, end, func(date string) {
		out = append(out, DaySummary{Date: date, DietSummary: summarizeDay(meals[date])})
	})
	if err != nil {
		return nil, fmt.Errorf("diet series: %w", err)
	}
	return out, nil
}

// RecordPresence maps every stored date to whether any slot holds an entry.
func (d *Diet) RecordPresence() map[string]bool {
	out := map[string]bool{}
	for date, day := range d.meals.Get() {
		has := false
		for _, items := range day {
			if len(items) > 0 {
				has = true
				break
			}
		}
		out[date] = has
	}
	return out
}

func (d *Diet) Goals() model.DietGoals {
	return d.goals.Get()
}

func (d *Diet) SetGoals(ctx context.Context, goals model.DietGoals) error {
	checks := []struct {
		name  string
		value model.Number
	}{
		{"kcal goal", goals.Kcal},
		{"carb goal", goals.Carb},
		{"protein goal", goals.Protein},
		{"fat goal", goals.Fat},
	}
	for _, c := range checks {
		if err := validateNonNegativeFloat(c.name, c.value.Float()); err != nil {
			return err
		}
	}
	if err := d.goals.Replace(ctx, goals); err != nil {
		return fmt.Errorf("set diet goals: %w", err)
	}
	return nil
}

func (d *Diet) ManualFoods() []model.FoodItem {
	return d.manual.items()
}

// AddManualFood keeps a user-entered food for reuse. A name already in the
// list is not added again.
func (d *Diet) AddManualFood(ctx context.Context, item model.FoodItem) (model.FoodItem, bool, error) {
	return d.manual.add(ctx, item)
}

func (d *Diet) RemoveManualFood(ctx context.Context, id string) (bool, error) {
	return d.manual.remove(ctx, id)
}

func (d *Diet) FavoriteFoods() []model.FoodItem {
	return d.favorites.items()
}

func (d *Diet) AddFavoriteFood(ctx context.Context, item model.FoodItem) (model.FoodItem, bool, error) {
	return d.favorites.add(ctx, item)
}

// RemoveFavoriteFood drops the favorite with id; other entries sharing its
// name are untouched.
func (d *Diet) RemoveFavoriteFood(ctx context.Context, id string) (bool, error) {
	return d.favorites.remove(ctx, id)
}

// ToggleFavoriteFood removes the favorite named like item or adds item.
// It reports whether the food is a favorite afterwards.
func (d *Diet) ToggleFavoriteFood(ctx context.Context, item model.FoodItem) (bool, error) {
	return d.favorites.toggle(ctx, item)
}
