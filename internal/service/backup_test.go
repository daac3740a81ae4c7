package service_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janghjun/healthlog/internal/service"
)

func TestBackupCreateAndRestore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "healthlog.db")
	if err := os.WriteFile(dbPath, []byte("sqlite bytes"), 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}

	backupPath := filepath.Join(dir, "backups", "healthlog-1.db")
	info, err := service.CreateBackup(dbPath, backupPath)
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if info.Checksum == "" || info.SizeBytes != int64(len("sqlite bytes")) {
		t.Fatalf("unexpected backup info %+v", info)
	}
	backups, err := service.ListBackups(filepath.Dir(backupPath))
	if err != nil || len(backups) != 1 {
		t.Fatalf("list backups: %+v err=%v", backups, err)
	}

	if err := service.RestoreBackup(backupPath, dbPath, false); err == nil {
		t.Fatalf("expected restore without force to refuse an existing db")
	}
	restored := filepath.Join(dir, "restored.db")
	if err := service.RestoreBackup(backupPath, restored, false); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err := os.ReadFile(restored)
	if err != nil || string(got) != "sqlite bytes" {
		t.Fatalf("unexpected restored content %q err=%v", got, err)
	}
}

func TestBackupChecksumSidecarUsesSha256sumFormat(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "healthlog.db")
	if err := os.WriteFile(dbPath, []byte("sqlite bytes"), 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}
	backupPath := filepath.Join(dir, "backups", "healthlog-1.db")
	info, err := service.CreateBackup(dbPath, backupPath)
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	line, err := os.ReadFile(backupPath + ".sha256")
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if want := info.Checksum + "  healthlog-1.db\n"; string(line) != want {
		t.Fatalf("sidecar = %q, want %q", line, want)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "backups", ".*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected no temp files, got %v", leftovers)
	}
}

func TestRestoreBackupRejectsTamperedFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "healthlog.db")
	if err := os.WriteFile(dbPath, []byte("sqlite bytes"), 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}
	backupPath := filepath.Join(dir, "healthlog-1.db")
	if _, err := service.CreateBackup(dbPath, backupPath); err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := os.WriteFile(backupPath, []byte("other bytes"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	err := service.RestoreBackup(backupPath, filepath.Join(dir, "restored.db"), false)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "restored.db")); !os.IsNotExist(err) {
		t.Fatalf("expected no restored file, stat err=%v", err)
	}
}
