package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

const exerciseLogTime = "18:00"

type ExerciseInput struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name"`
	Part     string        `json:"part"`
	Date     string        `json:"date"`
	Duration *model.Number `json:"duration"`
	Sets     string        `json:"sets,omitempty"`
	Reps     string        `json:"reps,omitempty"`
	Weight   string        `json:"weight,omitempty"`
	Favorite bool          `json:"favorite,omitempty"`
}

type ExercisePatch struct {
	Name     *string       `json:"name,omitempty"`
	Part     *string       `json:"part,omitempty"`
	Duration *model.Number `json:"duration,omitempty"`
	Sets     *string       `json:"sets,omitempty"`
	Reps     *string       `json:"reps,omitempty"`
	Weight   *string       `json:"weight,omitempty"`
}

type ExerciseSummary struct {
	DurationMin float64            `json:"durationMin"`
	Count       int                `json:"count"`
	ByPart      map[string]float64 `json:"byPart"`
}

func (s *ExerciseSummary) addRecord(r model.ExerciseRecord) {
	if s.ByPart == nil {
		s.ByPart = map[string]float64{}
	}
	s.DurationMin += r.Duration.Float()
	s.Count++
	s.ByPart[r.Part] += r.Duration.Float()
}

type Exercise struct {
	env
	notify    *Notifications
	records   *store.Value[model.ExerciseStore]
	goal      *store.Value[model.Number]
	manual    *namedList[model.ManualExercise]
	favorites *namedList[model.FavoriteExercise]
}

func exerciseKey(name, part string) string {
	name = normalizeName(name)
	if name == "" {
		return ""
	}
	return name + "\x00" + normalizeName(part)
}

func newExercise(e env, backend store.Backend, notify *Notifications) *Exercise {
	return &Exercise{
		env:    e,
		notify: notify,
		records: store.NewValue(KeyExerciseData, backend, e.logger,
			func() model.ExerciseStore { return model.ExerciseStore{} }, cloneExerciseStore),
		goal: store.NewValue(KeyExerciseGoal, backend, e.logger,
			func() model.Number { return model.DefaultExerciseGoalMin }, identity[model.Number]),
		manual: newNamedList(e, backend, KeyManualExercises, "manual exercise",
			singleKey(func(m model.ManualExercise) string { return exerciseKey(m.Name, m.Part) }),
			func(m model.ManualExercise) string { return m.ID },
			func(m model.ManualExercise, id string, at time.Time) model.ManualExercise {
				m.ID = id
				m.CreatedAt = at
				m.Name = normalizeName(m.Name)
				return m
			}),
		favorites: newNamedList(e, backend, KeyFavoriteExercises, "favorite exercise",
			singleKey(func(f model.FavoriteExercise) string { return exerciseKey(f.Name, f.Part) }),
			func(f model.FavoriteExercise) string { return f.ID },
			func(f model.FavoriteExercise, id string, at time.Time) model.FavoriteExercise {
				f.ID = id
				f.CreatedAt = at
				f.Name = normalizeName(f.Name)
				return f
			}),
	}
}

func (in ExerciseInput) validate(op string) error {
	switch {
	case normalizeName(in.Name) == "":
		return &ValidationError{Op: op, Field: "name"}
	case strings.TrimSpace(in.Part) == "":
		return &ValidationError{Op: op, Field: "part"}
	case strings.TrimSpace(in.Date) == "":
		return &ValidationError{Op: op, Field: "date"}
	case in.Duration == nil:
		return &ValidationError{Op: op, Field: "duration"}
	}
	return nil
}

// AddRecord files a workout under its date. A caller-supplied id is kept
// unless a record on any date already uses it, in which case a new id is
// assigned. Records with a positive duration also log an exercise
// notification.
func (x *Exercise) AddRecord(ctx context.Context, in ExerciseInput) (model.ExerciseRecord, error) {
	const op = "add exercise"
	if err := in.validate(op); err != nil {
		return model.ExerciseRecord{}, err
	}
	date, err := validateDate(op, in.Date)
	if err != nil {
		return model.ExerciseRecord{}, err
	}

	rec := model.ExerciseRecord{
		ID:        strings.TrimSpace(in.ID),
		CreatedAt: x.now().UTC(),
		Name:      normalizeName(in.Name),
		Part:      strings.TrimSpace(in.Part),
		Date:      date,
		Duration:  *in.Duration,
		Sets:      in.Sets,
		Reps:      in.Reps,
		Weight:    in.Weight,
		Favorite:  in.Favorite,
	}
	err = x.records.Update(ctx, func(records model.ExerciseStore) (model.ExerciseStore, error) {
		if rec.ID == "" || recordIDInUse(records, rec.ID) {
			rec.ID = x.newID()
		}
		records[date] = append(records[date], rec)
		return records, nil
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
	}

	var logErr error
	if x.notify != nil && rec.Duration > 0 {
		_, logErr = x.notify.Log(ctx, NotificationInput{
			Title: rec.Name + " 운동 알림",
			Date:  date,
			Time:  exerciseLogTime,
			Type:  KindExercise.Label(),
		})
	}
	return rec, joinErrors(err, logErr)
}

func recordIDInUse(records model.ExerciseStore, id string) bool {
	for _, items := range records {
		for _, r := range items {
			if r.ID == id {
				return true
			}
		}
	}
	return false
}

func (x *Exercise) UpdateRecord(ctx context.Context, date, id string, patch ExercisePatch) (model.ExerciseRecord, bool, error) {
	var updated model.ExerciseRecord
	found := false
	err := x.records.Update(ctx, func(records model.ExerciseStore) (model.ExerciseStore, error) {
		items := records[date]
		for i := range items {
			if items[i].ID != id {
				continue
			}
			r := items[i]
			if patch.Name != nil {
				r.Name = normalizeName(*patch.Name)
			}
			if patch.Part != nil {
				r.Part = strings.TrimSpace(*patch.Part)
			}
			r.Duration = numberOr(r.Duration, patch.Duration)
			r.Sets = stringOr(r.Sets, patch.Sets)
			r.Reps = stringOr(r.Reps, patch.Reps)
			r.Weight = stringOr(r.Weight, patch.Weight)
			items[i] = r
			updated = r
			found = true
			return records, nil
		}
		return nil, errNoChange
	})
	if err = ignoreNoChange(err); err != nil {
		return updated, found, fmt.Errorf("update exercise: %w", err)
	}
	return updated, found, nil
}

// DeleteRecord removes a record from its date. A date with no bucket is
// left alone; an emptied bucket is kept.
func (x *Exercise) DeleteRecord(ctx context.Context, date, id string) (bool, error) {
	removed := false
	err := x.records.Update(ctx, func(records model.ExerciseStore) (model.ExerciseStore, error) {
		items, ok := records[date]
		if !ok {
			return nil, errNoChange
		}
		kept := make([]model.ExerciseRecord, 0, len(items))
		for _, r := range items {
			if r.ID == id {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		if !removed {
			return nil, errNoChange
		}
		records[date] = kept
		return records, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return removed, fmt.Errorf("delete exercise: %w", err)
	}
	return removed, nil
}

// ToggleFavorite flips the favorite flag of every record with id, whatever
// date it is filed under. It returns the new flag and whether any record
// matched.
func (x *Exercise) ToggleFavorite(ctx context.Context, id string) (bool, bool, error) {
	favorite, found := false, false
	err := x.records.Update(ctx, func(records model.ExerciseStore) (model.ExerciseStore, error) {
		for date, items := range records {
			for i := range items {
				if items[i].ID == id {
					items[i].Favorite = !items[i].Favorite
					favorite = items[i].Favorite
					found = true
				}
			}
			records[date] = items
		}
		if !found {
			return nil, errNoChange
		}
		return records, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return favorite, found, fmt.Errorf("toggle exercise favorite: %w", err)
	}
	return favorite, found, nil
}

func (x *Exercise) RecordsByDate(date string) []model.ExerciseRecord {
	items := x.records.Get()[date]
	if items == nil {
		return []model.ExerciseRecord{}
	}
	return items
}

// RecordsByRange concatenates each day's records from start to end inclusive.
func (x *Exercise) RecordsByRange(start, end string) ([]model.ExerciseRecord, error) {
	records := x.records.Get()
	out := []model.ExerciseRecord{}
	err := store.EachDate(start, end, func(date string) {
		out = append(out, records[date]...)
	})
	if err != nil {
		return nil, fmt.Errorf("exercise range: %w", err)
	}
	return out, nil
}

func (x *Exercise) RecordsByPart(date, part string) []model.ExerciseRecord {
	out := []model.ExerciseRecord{}
	for _, r := range x.records.Get()[date] {
		if r.Part == part {
			out = append(out, r)
		}
	}
	return out
}

// GroupedByPart buckets date's records by body part. The keys are exactly
// model.BodyParts; records with any other part land under model.OtherPart.
func (x *Exercise) GroupedByPart(date string) map[string][]model.ExerciseRecord {
	out := make(map[string][]model.ExerciseRecord, len(model.BodyParts))
	for _, part := range model.BodyParts {
		out[part] = []model.ExerciseRecord{}
	}
	for _, r := range x.records.Get()[date] {
		part := r.Part
		if _, ok := out[part]; !ok {
			part = model.OtherPart
		}
		out[part] = append(out[part], r)
	}
	return out
}

// AllRecords flattens every bucket in date order.
func (x *Exercise) AllRecords() []model.ExerciseRecord {
	records := x.records.Get()
	dates := make([]string, 0, len(records))
	for date := range records {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	out := []model.ExerciseRecord{}
	for _, date := range dates {
		out = append(out, records[date]...)
	}
	return out
}

func (x *Exercise) Summary(date string) ExerciseSummary {
	s := ExerciseSummary{ByPart: map[string]float64{}}
	for _, r := range x.records.Get()[date] {
		s.addRecord(r)
	}
	return s
}

func (x *Exercise) SummaryRange(start, end string) (ExerciseSummary, error) {
	records, err := x.RecordsByRange(start, end)
	if err != nil {
		return ExerciseSummary{}, err
	}
	s := ExerciseSummary{ByPart: map[string]float64{}}
	for _, r := range records {
		s.addRecord(r)
	}
	return s, nil
}

func (x *Exercise) RecordPresence() map[string]bool {
	out := map[string]bool{}
	for date, items := range x.records.Get() {
		out[date] = len(items) > 0
	}
	return out
}

// Goal is the daily exercise target in minutes.
func (x *Exercise) Goal() int {
	return int(math.Round(x.goal.Get().Float()))
}

func (x *Exercise) SetGoal(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("exercise goal must be >= 0")
	}
	if err := x.goal.Replace(ctx, model.Number(minutes)); err != nil {
		return fmt.Errorf("set exercise goal: %w", err)
	}
	return nil
}

func (x *Exercise) ManualExercises() []model.ManualExercise {
	return x.manual.items()
}

func (x *Exercise) AddManualExercise(ctx context.Context, item model.ManualExercise) (model.ManualExercise, bool, error) {
	return x.manual.add(ctx, item)
}

func (x *Exercise) RemoveManualExercise(ctx context.Context, id string) (bool, error) {
	return x.manual.remove(ctx, id)
}

func (x *Exercise) FavoriteExercises() []model.FavoriteExercise {
	return x.favorites.items()
}

// AddFavoriteExercise keeps one favorite per name and body part.
func (x *Exercise) AddFavoriteExercise(ctx context.Context, item model.FavoriteExercise) (model.FavoriteExercise, bool, error) {
	return x.favorites.add(ctx, item)
}

func (x *Exercise) RemoveFavoriteExercise(ctx context.Context, id string) (bool, error) {
	return x.favorites.remove(ctx, id)
}

func (x *Exercise) ToggleFavoriteExercise(ctx context.Context, item model.FavoriteExercise) (bool, error) {
	return x.favorites.toggle(ctx, item)
}
