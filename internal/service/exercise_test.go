package service_test

import (
	"context"
	"testing"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

func squat(date string, minutes float64) service.ExerciseInput {
	return service.ExerciseInput{Name: "스쿼트", Part: "하체", Date: date, Duration: num(minutes), Sets: "5", Reps: "10"}
}

func TestExerciseSummaryRangeSumsDurations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	if _, err := tr.Exercise.AddRecord(ctx, squat("2024-05-01", 30)); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := tr.Exercise.AddRecord(ctx, service.ExerciseInput{Name: "러닝", Part: "유산소", Date: "2024-05-02", Duration: num(45)}); err != nil {
		t.Fatalf("add second: %v", err)
	}

	got, err := tr.Exercise.SummaryRange("2024-05-01", "2024-05-02")
	if err != nil {
		t.Fatalf("summary range: %v", err)
	}
	if got.DurationMin != 75 || got.Count != 2 {
		t.Fatalf("expected 75 minutes over 2 records, got %+v", got)
	}
	if got.ByPart["하체"] != 30 || got.ByPart["유산소"] != 45 {
		t.Fatalf("unexpected per-part minutes %+v", got.ByPart)
	}

	single, err := tr.Exercise.SummaryRange("2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("single day: %v", err)
	}
	if single.DurationMin != tr.Exercise.Summary("2024-05-01").DurationMin {
		t.Fatalf("single-day range %+v differs from day summary", single)
	}
}

func TestAddRecordKeepsProvidedID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	in := squat("2024-05-01", 20)
	in.ID = "workout-1"
	rec, err := tr.Exercise.AddRecord(ctx, in)
	if err != nil {
		t.Fatalf("add record: %v", err)
	}
	if rec.ID != "workout-1" || rec.Date != "2024-05-01" {
		t.Fatalf("unexpected record %+v", rec)
	}

	rec, err = tr.Exercise.AddRecord(ctx, squat("2024-05-01", 10))
	if err != nil {
		t.Fatalf("add generated id: %v", err)
	}
	if rec.ID == "" || rec.ID == "workout-1" {
		t.Fatalf("expected generated id, got %q", rec.ID)
	}
}

func TestAddRecordReplacesIDAlreadyInUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	in := squat("2024-05-01", 20)
	in.ID = "dup"
	first, err := tr.Exercise.AddRecord(ctx, in)
	if err != nil || first.ID != "dup" {
		t.Fatalf("add first: %+v err=%v", first, err)
	}
	in.Date = "2024-05-02"
	second, err := tr.Exercise.AddRecord(ctx, in)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.ID == "" || second.ID == "dup" {
		t.Fatalf("expected a fresh id for the second record, got %q", second.ID)
	}

	if fav, found, err := tr.Exercise.ToggleFavorite(ctx, "dup"); err != nil || !found || !fav {
		t.Fatalf("toggle: fav=%v found=%v err=%v", fav, found, err)
	}
	if tr.Exercise.RecordsByDate("2024-05-02")[0].Favorite {
		t.Fatalf("expected toggle to leave the other record alone")
	}
	if removed, err := tr.Exercise.DeleteRecord(ctx, "2024-05-01", "dup"); err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	if got := tr.Exercise.AllRecords(); len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("expected the second record to remain, got %+v", got)
	}
}

func TestAddRecordValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	cases := []struct {
		name  string
		in    service.ExerciseInput
		field string
	}{
		{"missing name", service.ExerciseInput{Part: "등", Date: "2024-05-01", Duration: num(1)}, "name"},
		{"missing part", service.ExerciseInput{Name: "풀업", Date: "2024-05-01", Duration: num(1)}, "part"},
		{"missing date", service.ExerciseInput{Name: "풀업", Part: "등", Duration: num(1)}, "date"},
		{"missing duration", service.ExerciseInput{Name: "풀업", Part: "등", Date: "2024-05-01"}, "duration"},
	}
	for _, tc := range cases {
		_, err := tr.Exercise.AddRecord(ctx, tc.in)
		if !service.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if _, err := tr.Exercise.AddRecord(ctx, squat("05/01/2024", 10)); err == nil {
		t.Fatalf("expected malformed date to be rejected")
	}
	if got := tr.Exercise.AllRecords(); len(got) != 0 {
		t.Fatalf("expected no records, got %+v", got)
	}
}

func TestDeleteRecordOnMissingDateIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	rec, err := tr.Exercise.AddRecord(ctx, squat("2024-05-01", 30))
	if err != nil {
		t.Fatalf("add record: %v", err)
	}
	if removed, err := tr.Exercise.DeleteRecord(ctx, "2024-06-01", rec.ID); err != nil || removed {
		t.Fatalf("expected no-op, removed=%v err=%v", removed, err)
	}
	if _, ok := tr.Exercise.RecordPresence()["2024-06-01"]; ok {
		t.Fatalf("expected no bucket to be created for the missing date")
	}
	if removed, err := tr.Exercise.DeleteRecord(ctx, "2024-05-01", rec.ID); err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	presence := tr.Exercise.RecordPresence()
	if has, ok := presence["2024-05-01"]; !ok || has {
		t.Fatalf("expected emptied bucket to remain without records, got %+v", presence)
	}
}

func TestToggleFavoriteAndUpdateRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	rec, err := tr.Exercise.AddRecord(ctx, squat("2024-05-01", 30))
	if err != nil {
		t.Fatalf("add record: %v", err)
	}
	fav, found, err := tr.Exercise.ToggleFavorite(ctx, rec.ID)
	if err != nil || !found || !fav {
		t.Fatalf("toggle on: fav=%v found=%v err=%v", fav, found, err)
	}
	fav, _, err = tr.Exercise.ToggleFavorite(ctx, rec.ID)
	if err != nil || fav {
		t.Fatalf("toggle off: fav=%v err=%v", fav, err)
	}
	if _, found, err := tr.Exercise.ToggleFavorite(ctx, "missing"); err != nil || found {
		t.Fatalf("expected unknown id to be ignored, found=%v err=%v", found, err)
	}

	updated, found, err := tr.Exercise.UpdateRecord(ctx, "2024-05-01", rec.ID, service.ExercisePatch{Duration: num(40)})
	if err != nil || !found || updated.Duration != 40 || updated.Sets != "5" {
		t.Fatalf("update: %+v found=%v err=%v", updated, found, err)
	}
}

func TestGroupedByPartHasEveryPart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	if _, err := tr.Exercise.AddRecord(ctx, squat("2024-05-01", 30)); err != nil {
		t.Fatalf("add record: %v", err)
	}
	groups := tr.Exercise.GroupedByPart("2024-05-01")
	for _, part := range model.BodyParts {
		if _, ok := groups[part]; !ok {
			t.Fatalf("expected part %s in grouping", part)
		}
	}
	if len(groups["하체"]) != 1 || len(groups["가슴"]) != 0 {
		t.Fatalf("unexpected grouping %+v", groups)
	}
	if got := tr.Exercise.RecordsByPart("2024-05-01", "하체"); len(got) != 1 {
		t.Fatalf("expected one 하체 record, got %+v", got)
	}
}

func TestGroupedByPartFilesUnknownPartsUnderOther(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	in := squat("2024-05-01", 15)
	in.Name, in.Part = "버피", "전신"
	if _, err := tr.Exercise.AddRecord(ctx, in); err != nil {
		t.Fatalf("add record: %v", err)
	}
	groups := tr.Exercise.GroupedByPart("2024-05-01")
	if len(groups) != len(model.BodyParts) {
		t.Fatalf("expected %d parts, got %d: %+v", len(model.BodyParts), len(groups), groups)
	}
	if got := groups[model.OtherPart]; len(got) != 1 || got[0].Part != "전신" {
		t.Fatalf("expected record under %s with its part kept, got %+v", model.OtherPart, got)
	}
}

func TestRecordsByRangeSkipsOutsideDates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	for _, date := range []string{"2024-04-30", "2024-05-01", "2024-05-03", "2024-05-04"} {
		if _, err := tr.Exercise.AddRecord(ctx, squat(date, 10)); err != nil {
			t.Fatalf("add %s: %v", date, err)
		}
	}
	got, err := tr.Exercise.RecordsByRange("2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2024-05-01" || got[1].Date != "2024-05-03" {
		t.Fatalf("unexpected range %+v", got)
	}
	if all := tr.Exercise.AllRecords(); len(all) != 4 || all[0].Date != "2024-04-30" {
		t.Fatalf("unexpected all records %+v", all)
	}
}

func TestAddRecordLogsOnlyTimedWorkouts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	if _, err := tr.Exercise.AddRecord(ctx, squat("2024-05-02", 0)); err != nil {
		t.Fatalf("add untimed: %v", err)
	}
	if got := tr.Notifications.List(); len(got) != 0 {
		t.Fatalf("expected no log for zero duration, got %+v", got)
	}
	if _, err := tr.Exercise.AddRecord(ctx, squat("2024-05-02", 25)); err != nil {
		t.Fatalf("add timed: %v", err)
	}
	logs := tr.Notifications.ForDate("2024-05-02")
	if len(logs) != 1 || logs[0].Title != "스쿼트 운동 알림" || logs[0].Time != "18:00" || logs[0].Type != "운동" {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestExerciseGoalDefaultAndStoredAsText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, mem := newMemoryTracker(t)

	if got := tr.Exercise.Goal(); got != model.DefaultExerciseGoalMin {
		t.Fatalf("expected default goal, got %d", got)
	}
	if err := mem.Put(ctx, service.KeyExerciseGoal, `"90"`); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	tr.Reload(ctx)
	if got := tr.Exercise.Goal(); got != 90 {
		t.Fatalf("expected goal 90 from text, got %d", got)
	}
	if err := tr.Exercise.SetGoal(ctx, -5); err == nil {
		t.Fatalf("expected negative goal to be rejected")
	}
	if err := tr.Exercise.SetGoal(ctx, 45); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	raw, _, _ := mem.Get(ctx, service.KeyExerciseGoal)
	if raw != "45" {
		t.Fatalf("expected bare number stored, got %q", raw)
	}
}

func TestFavoriteExercisesDedupeOnNameAndPart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	first, added, err := tr.Exercise.AddFavoriteExercise(ctx, model.FavoriteExercise{ID: "bench", Name: "벤치프레스", Part: "가슴", Duration: 20, MET: 6})
	if err != nil || !added || first.ID != "bench" {
		t.Fatalf("add favorite: %+v added=%v err=%v", first, added, err)
	}
	if _, added, _ := tr.Exercise.AddFavoriteExercise(ctx, model.FavoriteExercise{Name: "벤치프레스", Part: "가슴"}); added {
		t.Fatalf("expected duplicate name and part to be ignored")
	}
	if _, added, _ := tr.Exercise.AddFavoriteExercise(ctx, model.FavoriteExercise{Name: "벤치프레스", Part: "어깨"}); !added {
		t.Fatalf("expected same name with another part to be added")
	}
	if removed, err := tr.Exercise.RemoveFavoriteExercise(ctx, "bench"); err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	if got := tr.Exercise.FavoriteExercises(); len(got) != 1 || got[0].Part != "어깨" {
		t.Fatalf("unexpected favorites %+v", got)
	}

	manual, added, err := tr.Exercise.AddManualExercise(ctx, model.ManualExercise{Name: "플랭크", Part: "복근", Duration: 5})
	if err != nil || !added || manual.CreatedAt.IsZero() {
		t.Fatalf("add manual: %+v added=%v err=%v", manual, added, err)
	}
	if removed, err := tr.Exercise.RemoveManualExercise(ctx, manual.ID); err != nil || !removed {
		t.Fatalf("remove manual: removed=%v err=%v", removed, err)
	}
}

func TestToggleFavoriteExerciseMatchesNameAndPart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	on, err := tr.Exercise.ToggleFavoriteExercise(ctx, model.FavoriteExercise{Name: "데드리프트", Part: "등", Duration: 20})
	if err != nil || !on {
		t.Fatalf("toggle on: on=%v err=%v", on, err)
	}
	on, err = tr.Exercise.ToggleFavoriteExercise(ctx, model.FavoriteExercise{Name: "데드리프트", Part: "하체"})
	if err != nil || !on {
		t.Fatalf("expected another part to be a separate favorite, on=%v err=%v", on, err)
	}
	if got := tr.Exercise.FavoriteExercises(); len(got) != 2 {
		t.Fatalf("expected two favorites, got %+v", got)
	}
	on, err = tr.Exercise.ToggleFavoriteExercise(ctx, model.FavoriteExercise{Name: " 데드리프트", Part: "등"})
	if err != nil || on {
		t.Fatalf("toggle off: on=%v err=%v", on, err)
	}
	if got := tr.Exercise.FavoriteExercises(); len(got) != 1 || got[0].Part != "하체" {
		t.Fatalf("expected only the 하체 favorite left, got %+v", got)
	}
}
