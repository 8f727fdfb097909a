package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const appName = "pomoblock"

// ErrNoConfigRoot is returned when neither XDG_CONFIG_HOME nor HOME is set.
var ErrNoConfigRoot = errors.New("neither XDG_CONFIG_HOME nor HOME is set")

// DefaultBlacklist is the block list used when no config file exists
var DefaultBlacklist = []string{
	"brave-browser",
	"telegram-desktop",
	"Telegram",
	"Signal",
	"signal",
	"Discord",
	"discord",
	"chromium-browser",
}

// Config holds all application configuration
type Config struct {
	// Path of the TOML file the config was loaded from, if any
	File string

	// Values from File that could not be used and were reset
	Defects []Defect

	// Session timer configuration
	Session SessionConfig

	// Sentinel lock file configuration
	Lock LockConfig

	// Database configuration
	Database DatabaseConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Logging configuration
	Log LogConfig
}

// SessionConfig holds the work/break timer and the block list
type SessionConfig struct {
	Work        time.Duration // Length of a work period
	Break       time.Duration // Length of a break
	StartActive bool          // Start in a work period even without the lock file
	Blacklist   []string      // Window classes/titles killed during work periods
}

// LockConfig holds sentinel lock file configuration
type LockConfig struct {
	Monitor bool   // Watch the lock file
	Path    string // Empty means <config root>/pomoblock/pomoblock.lock
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path    string // Empty means <data home>/pomoblock/pomoblock.db
	Disable bool   // Do not journal kills and transitions
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
	LogFile string // Log destination when detached
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // debug, info, warn, error
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Work:      1200 * time.Second,
			Break:     300 * time.Second,
			Blacklist: append([]string(nil), DefaultBlacklist...),
		},
		Lock: LockConfig{
			Monitor: true,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/%s-%d.pid", appName, os.Getuid()),
			LogFile: fmt.Sprintf("/tmp/%s-%d.log", appName, os.Getuid()),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// New creates a Config from defaults, the config file and the environment, in
// that order of precedence. Malformed values end up in Defects; only a
// missing config root or an unreadable file is an error.
func New() (*Config, error) {
	return Load("")
}

// Load is New with an explicit config file. An empty path means
// POMOBLOCK_CONFIG, then the default location.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("POMOBLOCK_CONFIG")
	}
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}

	LoadFromEnv(cfg)
	return cfg, nil
}

// ResolvePaths fills in the lock and database paths derived from the XDG
// directories. It fails only when no config root can be found.
func (c *Config) ResolvePaths() error {
	if c.Lock.Path == "" {
		p, err := DefaultLockPath()
		if err != nil {
			return err
		}
		c.Lock.Path = p
	}
	if c.Database.Path == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return err
		}
		c.Database.Path = p
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Session.Work < 0 {
		return fmt.Errorf("work duration cannot be negative")
	}

	if c.Session.Break < 0 {
		return fmt.Errorf("break duration cannot be negative")
	}

	if c.Lock.Monitor && c.Lock.Path == "" {
		return fmt.Errorf("lock file path cannot be empty when monitoring is enabled")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  File: %s
  Session:
    Work: %v
    Break: %v
    Start Active: %v
    Blacklist: %s
  Lock:
    Monitor: %v
    Path: %s
  Database:
    Path: %s
    Disabled: %v
  Daemon:
    PID File: %s
    Log File: %s
  Log:
    Level: %s`,
		c.File,
		c.Session.Work,
		c.Session.Break,
		c.Session.StartActive,
		strings.Join(c.Session.Blacklist, ", "),
		c.Lock.Monitor,
		c.Lock.Path,
		c.Database.Path,
		c.Database.Disable,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Log.Level,
	)
}
