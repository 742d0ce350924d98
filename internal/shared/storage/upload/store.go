package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"faq-backend/internal/shared/telemetry"
	"faq-backend/internal/shared/util"
)

// Store keeps uploaded source documents in a local directory until they are
// processed and removed.
type Store struct {
	baseDir string
}

// New creates an upload store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes the reader to disk under a collision-resistant generated name
// (timestamp + random suffix + the original extension) and returns the full path.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(sanitized))

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102T150405"), randomSuffix(), ext)
	fullPath := filepath.Join(s.baseDir, name)

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write body: %w", err)
	}
	return fullPath, nil
}

// Remove deletes a previously saved file. Paths outside the upload directory
// are rejected.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	clean := filepath.Clean(path)
	base := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(clean, base+string(filepath.Separator)) {
		return fmt.Errorf("path outside upload dir: %s", path)
	}
	return os.Remove(clean)
}

// Sweep deletes regular files in the upload directory older than the retention
// window. It is best-effort: failures are logged and do not stop the sweep.
func (s *Store) Sweep(olderThan time.Duration) int {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if !os.IsNotExist(err) {
			telemetry.Warn("upload.sweep.readdir", map[string]any{"dir": s.baseDir, "error": err.Error()})
		}
		return 0
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			telemetry.Warn("upload.sweep.remove", map[string]any{"path": path, "error": err.Error()})
			continue
		}
		removed++
	}
	if removed > 0 {
		telemetry.Info("upload.sweep", map[string]any{"dir": s.baseDir, "removed": removed})
	}
	return removed
}

func randomSuffix() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(b[:])
}
