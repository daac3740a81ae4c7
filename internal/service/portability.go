package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshot is every storage key's raw JSON document.
type Snapshot struct {
	ExportedAt time.Time                  `json:"exported_at"`
	Data       map[string]json.RawMessage `json:"data"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeReplace ImportMode = "replace"
)

func ParseImportMode(s string) (ImportMode, error) {
	mode := ImportMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case "":
		return ImportModeFail, nil
	case ImportModeFail, ImportModeSkip, ImportModeReplace:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (expected fail|skip|replace)", s)
	}
}

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Written   int      `json:"written"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func knownKey(key string) bool {
	for _, k := range StorageKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Export copies every stored document as-is. Keys never written are left
// out.
func (t *Tracker) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: t.now().UTC(), Data: map[string]json.RawMessage{}}
	for _, key := range StorageKeys {
		raw, ok, err := t.backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			t.logger.Warn("export skipped unparseable value", "key", key)
			continue
		}
		snap.Data[key] = json.RawMessage(raw)
	}
	return snap, nil
}

// Import writes snapshot documents into storage and reloads the tracker.
// Mode fail refuses the whole import when any target key already holds data,
// skip keeps existing keys, and replace overwrites them.
func (t *Tracker) Import(ctx context.Context, snap *Snapshot, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if snap == nil {
		return report, fmt.Errorf("import: snapshot is required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeFail
	}

	type write struct {
		key string
		raw string
	}
	var writes []write
	for _, key := range StorageKeys {
		raw, ok := snap.Data[key]
		if !ok {
			continue
		}
		if !json.Valid(raw) {
			return report, fmt.Errorf("import %s: invalid JSON", key)
		}
		existing, has, err := t.backend.Get(ctx, key)
		if err != nil {
			return report, fmt.Errorf("import %s: %w", key, err)
		}
		if has && strings.TrimSpace(existing) != "" {
			report.Conflicts++
			if mode == ImportModeSkip {
				report.Skipped++
				continue
			}
		}
		writes = append(writes, write{key: key, raw: string(raw)})
	}
	for key := range snap.Data {
		if !knownKey(key) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("unknown key %q ignored", key))
			report.Skipped++
		}
	}
	if mode == ImportModeFail && report.Conflicts > 0 {
		return report, fmt.Errorf("import: %d key(s) already hold data; use --mode skip or replace", report.Conflicts)
	}
	if opts.DryRun {
		report.Written = len(writes)
		return report, nil
	}
	for _, w := range writes {
		if err := t.backend.Put(ctx, w.key, w.raw); err != nil {
			t.Reload(ctx)
			return report, fmt.Errorf("import %s: %w", w.key, persistFailure(err))
		}
		report.Written++
	}
	t.Reload(ctx)
	return report, nil
}

// WriteSnapshotFile writes snap as indented JSON next to a .sha256 file.
func WriteSnapshotFile(path string, snap *Snapshot) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("snapshot path is required")
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, append(body, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	checksum, err := fileSHA256(path)
	if err != nil {
		return "", err
	}
	if err := writeChecksumFile(path, checksum); err != nil {
		return "", err
	}
	return checksum, nil
}

// ReadSnapshotFile decodes a snapshot, verifying its checksum file when one
// sits next to it.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	if err := verifyChecksumFile(path); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Data == nil {
		snap.Data = map[string]json.RawMessage{}
	}
	return &snap, nil
}
