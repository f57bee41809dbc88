// Package report writes the derived JSON, text, CSV, and spreadsheet
// outputs. Every writer returns the path actually written, which may be a
// timestamp-suffixed alternate when the destination was unwritable.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrWriteConflict is returned when a destination file is unwritable and
// the alternate path also failed.
var ErrWriteConflict = errors.New("write conflict")

// now is swapped out in tests for deterministic alternate paths.
var now = time.Now

// EnsureDir creates the output directory when missing.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("output directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}
	return nil
}

// alternatePath inserts a timestamp between the file name and extension,
// e.g. outputs/report.xlsx -> outputs/report_20240115_093042.xlsx.
func alternatePath(path string, ts time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%s%s", base, ts.Format("20060102_150405"), ext)
}

// saveWithFallback attempts to save at path; a destination held open by
// another process fails the first save, so the write is retried once at a
// timestamp-suffixed alternate path before giving up.
func saveWithFallback(path string, save func(string) error) (string, error) {
	if err := save(path); err == nil {
		return path, nil
	}
	alternate := alternatePath(path, now())
	if err := save(alternate); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteConflict, path, err)
	}
	return alternate, nil
}
