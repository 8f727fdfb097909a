package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	// Session configuration
	if work := os.Getenv("POMOBLOCK_WORK_SECONDS"); work != "" {
		if seconds, err := strconv.Atoi(work); err == nil && seconds >= 0 {
			cfg.Session.Work = time.Duration(seconds) * time.Second
		}
	}

	if brk := os.Getenv("POMOBLOCK_BREAK_SECONDS"); brk != "" {
		if seconds, err := strconv.Atoi(brk); err == nil && seconds >= 0 {
			cfg.Session.Break = time.Duration(seconds) * time.Second
		}
	}

	// Lock configuration
	if monitor := os.Getenv("POMOBLOCK_LOCK_MONITOR"); monitor != "" {
		if val, err := strconv.ParseBool(monitor); err == nil {
			cfg.Lock.Monitor = val
		}
	}

	if lockPath := os.Getenv("POMOBLOCK_LOCK_FILE"); lockPath != "" {
		cfg.Lock.Path = lockPath
	}

	// Database configuration
	if dbPath := os.Getenv("POMOBLOCK_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Daemon configuration
	if pidFile := os.Getenv("POMOBLOCK_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if level := os.Getenv("POMOBLOCK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}
