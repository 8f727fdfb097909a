// Package lockfile tracks the existence of the sentinel lock file that starts
// a work period from outside the window manager.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Flag is the latest observed existence of the sentinel file. It has one
// writer (the monitor goroutine) and one reader (the hook).
type Flag struct {
	v atomic.Bool
}

// Present reports the last stored value.
func (f *Flag) Present() bool {
	return f.v.Load()
}

func (f *Flag) store(present bool) {
	f.v.Store(present)
}

// Exists reports whether the sentinel file is on disk. Its content is never read.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat lock file: %w", err)
}

// Create creates the sentinel file and its directory. An existing file is left alone.
func Create(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	return f.Close()
}

// Remove deletes the sentinel file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Toggle creates the sentinel file if it is missing and removes it otherwise.
// It returns whether the file exists afterwards.
func Toggle(path string) (bool, error) {
	exists, err := Exists(path)
	if err != nil {
		return false, err
	}
	if exists {
		return false, Remove(path)
	}
	return true, Create(path)
}
