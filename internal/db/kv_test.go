package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/janghjun/healthlog/internal/db"
)

func newTestKV(t *testing.T) *db.KV {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "healthlog.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db.NewKV(sqldb)
}

func TestKVPutGetOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := newTestKV(t)

	if _, ok, err := kv.Get(ctx, "meals"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := kv.Put(ctx, "meals", `{"2024-05-01":{}}`); err != nil {
		t.Fatalf("put meals: %v", err)
	}
	if err := kv.Put(ctx, "meals", `{}`); err != nil {
		t.Fatalf("overwrite meals: %v", err)
	}
	value, ok, err := kv.Get(ctx, "meals")
	if err != nil || !ok {
		t.Fatalf("get meals: ok=%v err=%v", ok, err)
	}
	if value != `{}` {
		t.Fatalf("expected overwritten value, got %q", value)
	}
	version, err := kv.Version(ctx, "meals")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2 after two writes, got %d", version)
	}
}

func TestKVKeysAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := newTestKV(t)

	for _, key := range []string{"symptoms", "meals", "exerciseGoal"} {
		if err := kv.Put(ctx, key, `[]`); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	if err := kv.Delete(ctx, "meals"); err != nil {
		t.Fatalf("delete meals: %v", err)
	}
	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "exerciseGoal" || keys[1] != "symptoms" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestKVRejectsEmptyKey(t *testing.T) {
	t.Parallel()
	kv := newTestKV(t)
	if err := kv.Put(context.Background(), "  ", "x"); err == nil {
		t.Fatalf("expected empty key error")
	}
}
