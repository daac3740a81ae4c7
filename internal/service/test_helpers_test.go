package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/janghjun/healthlog/internal/db"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/janghjun/healthlog/internal/store"
)

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func testOptions() service.Options {
	var seq atomic.Int64
	return service.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return testNow },
		NewID:  func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
	}
}

func newTestKV(t *testing.T) *db.KV {
	t.Helper()
	path := filepath.Join(t.TempDir(), "healthlog.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db.NewKV(sqldb)
}

func newTestTracker(t *testing.T) *service.Tracker {
	t.Helper()
	return service.Open(context.Background(), newTestKV(t), testOptions())
}

func newMemoryTracker(t *testing.T) (*service.Tracker, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return service.Open(context.Background(), mem, testOptions()), mem
}

func num(v float64) *model.Number {
	return model.NumberOf(v)
}

func chickenBreast() service.FoodInput {
	return service.FoodInput{
		Name:    "닭가슴살",
		Weight:  num(150),
		Kcal:    num(250),
		Carb:    num(0),
		Protein: num(45),
		Fat:     num(5),
		Sodium:  num(300),
	}
}
