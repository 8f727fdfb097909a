package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home, falling back to ~/.config.
// Unlike the data directory there is no "." fallback: the lock file must live
// at a path other programs can find.
func XDGConfigHome() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config"), nil
	}
	return "", ErrNoConfigRoot
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// ConfigDir returns <config home>/pomoblock.
func ConfigDir() (string, error) {
	root, err := XDGConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, appName), nil
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLockPath returns the sentinel file path, <config home>/pomoblock/pomoblock.lock.
func DefaultLockPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".lock"), nil
}

// DefaultDBPath returns the default path for the SQLite journal.
func DefaultDBPath() (string, error) {
	return filepath.Join(XDGDataHome(), appName, appName+".db"), nil
}
