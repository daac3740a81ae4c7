package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const checksumSuffix = ".sha256"

// BackupInfo describes one database copy and its recorded checksum.
type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// CreateBackup copies the database file to outPath and records its checksum
// in a sidecar file using the sha256sum line format.
func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" || strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("create backup: db path and output path are required")
	}
	sum, size, err := copyVerified(dbPath, outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("create backup: %w", err)
	}
	if err := writeChecksumFile(outPath, sum); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: sum, CreatedAt: time.Now().UTC(), SizeBytes: size}, nil
}

// RestoreBackup replaces dbPath with the backup after checking the backup
// against its sidecar checksum, when present. An existing database is only
// overwritten with force.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("restore backup: backup path and db path are required")
	}
	if _, err := os.Stat(dbPath); err == nil && !force {
		return fmt.Errorf("restore backup: %s already exists; use --force to overwrite", dbPath)
	}
	if err := verifyChecksumFile(backupPath); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	if _, _, err := copyVerified(backupPath, dbPath); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}

// ListBackups returns the .db files in dir, newest first.
func ListBackups(dir string) ([]BackupInfo, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	out := make([]BackupInfo, 0, len(paths))
	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil || st.IsDir() {
			continue
		}
		sum, _ := readChecksumFile(path)
		out = append(out, BackupInfo{Path: path, Checksum: sum, CreatedAt: st.ModTime().UTC(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// copyVerified writes src to a temporary file beside dst, hashing as it
// copies, and renames it into place once synced.
func copyVerified(src, dst string) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", 0, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), in)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", 0, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", 0, fmt.Errorf("move into place: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeChecksumFile(path, sum string) error {
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	if err := os.WriteFile(path+checksumSuffix, []byte(line), 0o644); err != nil {
		return fmt.Errorf("write checksum file: %w", err)
	}
	return nil
}

// readChecksumFile returns the digest recorded next to path. Both a bare
// digest and a sha256sum line are accepted.
func readChecksumFile(path string) (string, error) {
	b, err := os.ReadFile(path + checksumSuffix)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file for %s", filepath.Base(path))
	}
	return fields[0], nil
}

// verifyChecksumFile compares path with its sidecar digest. A missing
// sidecar is not an error.
func verifyChecksumFile(path string) error {
	want, err := readChecksumFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	got, err := fileSHA256(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("checksum mismatch for %s", filepath.Base(path))
	}
	return nil
}
