package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/janghjun/healthlog/internal/store"
)

func TestNotificationToggleLogsWhenEnabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr := newTestTracker(t)

	if got := tr.Notifications.Settings(); got != model.DefaultNotificationSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	settings, err := tr.Notifications.Toggle(ctx, service.KindMedication)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if settings.Medication || !settings.Diet || !settings.Exercise {
		t.Fatalf("expected only medication off, got %+v", settings)
	}
	if got := tr.Notifications.List(); len(got) != 0 {
		t.Fatalf("expected no log when switching off, got %+v", got)
	}

	settings, err = tr.Notifications.Toggle(ctx, service.KindMedication)
	if err != nil || !settings.Medication {
		t.Fatalf("toggle on: %+v err=%v", settings, err)
	}
	logs := tr.Notifications.ForDate("2024-05-01")
	if len(logs) != 1 {
		t.Fatalf("expected one log, got %+v", logs)
	}
	if logs[0].Title != "복약 알림 설정" || logs[0].Time != "08:00" || logs[0].Type != "복약" {
		t.Fatalf("unexpected log %+v", logs[0])
	}

	if _, err := tr.Notifications.Toggle(ctx, "sleep"); err == nil {
		t.Fatalf("expected unknown kind to be rejected")
	}
}

func TestNotificationLogRequiresTitle(t *testing.T) {
	t.Parallel()
	tr := newTestTracker(t)
	if _, err := tr.Notifications.Log(context.Background(), service.NotificationInput{}); !service.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNotificationLogWriteFailureIsReported(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, mem := newMemoryTracker(t)
	mem.SetFailPut(errors.New("read-only"))

	entry, err := tr.Notifications.Log(ctx, service.NotificationInput{Title: "물 마시기", Time: "10:00", Type: "기타"})
	if !errors.Is(err, store.ErrPersist) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if entry.ID == "" || len(tr.Notifications.List()) != 1 {
		t.Fatalf("expected entry to stay in memory")
	}
}

func TestReminderID(t *testing.T) {
	t.Parallel()
	if got := service.ReminderID(service.KindDiet, 8, 0); got != "diet-8-0" {
		t.Fatalf("unexpected reminder id %q", got)
	}
	kind, err := service.ParseNotificationKind(" Exercise ")
	if err != nil || kind != service.KindExercise {
		t.Fatalf("parse kind: %v %v", kind, err)
	}
}
