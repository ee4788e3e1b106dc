package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TempFilePrefix marks in-flight entry writes. List skips files carrying
	// it and Initialize sweeps the stale ones.
	TempFilePrefix = ".encyclopedia-tmp-"

	// DefaultFileMode is given to entry files created by Save.
	DefaultFileMode os.FileMode = 0644

	// staleTempAge is how old a temp file must be before a sweep removes it,
	// so a write in progress elsewhere is left alone.
	staleTempAge = time.Minute
)

// replaceEntryFile writes content to a temp file next to path and renames it
// over path. An entry that already exists keeps its permission bits.
func replaceEntryFile(path string, content []byte) error {
	mode := DefaultFileMode
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	renamed = true
	return nil
}

// sweepTempFiles removes temp files that interrupted writes left in dir and
// reports how many were removed.
func sweepTempFiles(dir string, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read entries directory: %w", err)
	}

	removed := 0
	for _, d := range entries {
		if d.IsDir() || !strings.HasPrefix(d.Name(), TempFilePrefix) {
			continue
		}
		info, err := d.Info()
		if err != nil || now.Sub(info.ModTime()) < staleTempAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, d.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove stale temp file: %w", err)
		}
		removed++
	}
	return removed, nil
}
