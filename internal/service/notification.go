package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

// NotificationKind selects one of the three reminder switches.
type NotificationKind string

const (
	KindDiet       NotificationKind = "diet"
	KindMedication NotificationKind = "medication"
	KindExercise   NotificationKind = "exercise"
)

// Label is the display word used in log titles and the log type column.
func (k NotificationKind) Label() string {
	switch k {
	case KindDiet:
		return "식단"
	case KindMedication:
		return "복약"
	case KindExercise:
		return "운동"
	default:
		return string(k)
	}
}

func ParseNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDiet, KindMedication, KindExercise:
		return k, nil
	default:
		return "", fmt.Errorf("invalid notification kind %q (expected diet|medication|exercise)", s)
	}
}

// ReminderID names a scheduled reminder so the presentation layer can
// register and cancel it.
func ReminderID(kind NotificationKind, hour, minute int) string {
	return fmt.Sprintf("%s-%d-%d", kind, hour, minute)
}

const settingsLogTime = "08:00"

type NotificationInput struct {
	Title string
	Date  string
	Time  string
	Type  string
}

type Notifications struct {
	env
	logs     *store.Value[[]model.NotificationLog]
	settings *store.Value[model.NotificationSettings]
}

func newNotifications(e env, backend store.Backend) *Notifications {
	return &Notifications{
		env: e,
		logs: store.NewValue(KeyNotificationLogs, backend, e.logger,
			func() []model.NotificationLog { return []model.NotificationLog{} },
			cloneSlice[model.NotificationLog]),
		settings: store.NewValue(KeyNotificationSettings, backend, e.logger,
			model.DefaultNotificationSettings,
			identity[model.NotificationSettings]),
	}
}

// Log appends one entry to the notification center.
func (n *Notifications) Log(ctx context.Context, in NotificationInput) (model.NotificationLog, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.NotificationLog{}, &ValidationError{Op: "log notification", Field: "title"}
	}
	entry := model.NotificationLog{
		ID:    n.newID(),
		Title: strings.TrimSpace(in.Title),
		Date:  in.Date,
		Time:  in.Time,
		Type:  in.Type,
	}
	if entry.Date == "" {
		entry.Date = utcDate(n.now())
	}
	err := n.logs.Update(ctx, func(logs []model.NotificationLog) ([]model.NotificationLog, error) {
		return append(logs, entry), nil
	})
	if err != nil {
		return entry, fmt.Errorf("log notification: %w", err)
	}
	return entry, nil
}

// List returns every entry, oldest first.
func (n *Notifications) List() []model.NotificationLog {
	return n.logs.Get()
}

func (n *Notifications) ForDate(date string) []model.NotificationLog {
	out := []model.NotificationLog{}
	for _, entry := range n.logs.Get() {
		if entry.Date == date {
			out = append(out, entry)
		}
	}
	return out
}

func (n *Notifications) Settings() model.NotificationSettings {
	return n.settings.Get()
}

// Toggle flips one switch and returns the new settings. Switching a kind on
// records a log entry dated today.
func (n *Notifications) Toggle(ctx context.Context, kind NotificationKind) (model.NotificationSettings, error) {
	if _, err := ParseNotificationKind(string(kind)); err != nil {
		return n.Settings(), err
	}
	var next model.NotificationSettings
	err := n.settings.Update(ctx, func(s model.NotificationSettings) (model.NotificationSettings, error) {
		switch kind {
		case KindDiet:
			s.Diet = !s.Diet
		case KindMedication:
			s.Medication = !s.Medication
		case KindExercise:
			s.Exercise = !s.Exercise
		}
		next = s
		return s, nil
	})
	if err != nil {
		err = fmt.Errorf("toggle %s notifications: %w", kind, err)
	}
	if !enabled(next, kind) {
		return next, err
	}
	_, logErr := n.Log(ctx, NotificationInput{
		Title: kind.Label() + " 알림 설정",
		Time:  settingsLogTime,
		Type:  kind.Label(),
	})
	return next, joinErrors(err, logErr)
}

func enabled(s model.NotificationSettings, kind NotificationKind) bool {
	switch kind {
	case KindDiet:
		return s.Diet
	case KindMedication:
		return s.Medication
	case KindExercise:
		return s.Exercise
	default:
		return false
	}
}
