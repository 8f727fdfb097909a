package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
//
// Durations and the block list are decoded field by field so that a bad value
// only resets that value instead of rejecting the whole file.
type FileConfig struct {
	Blacklist toml.Primitive `toml:"blacklist"`
	Pomodoro  PomodoroConfig `toml:"pomodoro"`
	Lock      LockFile       `toml:"lock"`
	Database  DatabaseFile   `toml:"database"`
	Log       LogFile        `toml:"log"`
}

// PomodoroConfig maps the [pomodoro] table. Durations are integer seconds.
type PomodoroConfig struct {
	Work        toml.Primitive `toml:"work"`
	Break       toml.Primitive `toml:"break"`
	StartActive *bool          `toml:"start_active"`
}

// LockFile maps the [lock] table.
type LockFile struct {
	Monitor *bool   `toml:"monitor"`
	Path    *string `toml:"path"`
}

// DatabaseFile maps the [database] table.
type DatabaseFile struct {
	Path    *string `toml:"path"`
	Disable *bool   `toml:"disable"`
}

// LogFile maps the [log] table.
type LogFile struct {
	Level *string `toml:"level"`
}

// Defect describes a configuration value that could not be used and was
// replaced by its zero value.
type Defect struct {
	Key string
	Err error
}

func (d Defect) Error() string {
	return fmt.Sprintf("%s: %v", d.Key, d.Err)
}

// LoadFile applies the TOML file at path on top of cfg. A missing file is not
// an error and leaves cfg untouched. When the file exists, work and break
// default to 0 and the block list to empty unless the file sets them.
// Malformed values are recorded in cfg.Defects rather than failing; only I/O
// errors are returned.
func LoadFile(cfg *Config, path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg.File = path
	cfg.Defects = nil
	cfg.Session.Work = 0
	cfg.Session.Break = 0
	cfg.Session.Blacklist = nil

	var fc FileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		cfg.Defects = append(cfg.Defects, Defect{Key: path, Err: err})
		return nil
	}

	var defects []Defect

	if md.IsDefined("pomodoro", "work") {
		d, err := decodeSeconds(md, fc.Pomodoro.Work)
		if err != nil {
			defects = append(defects, Defect{Key: "pomodoro.work", Err: err})
		}
		cfg.Session.Work = d
	}
	if md.IsDefined("pomodoro", "break") {
		d, err := decodeSeconds(md, fc.Pomodoro.Break)
		if err != nil {
			defects = append(defects, Defect{Key: "pomodoro.break", Err: err})
		}
		cfg.Session.Break = d
	}
	if md.IsDefined("blacklist") {
		var list []string
		if err := md.PrimitiveDecode(fc.Blacklist, &list); err != nil {
			defects = append(defects, Defect{Key: "blacklist", Err: err})
		} else {
			cfg.Session.Blacklist = list
		}
	}

	applyBool(&cfg.Session.StartActive, fc.Pomodoro.StartActive)
	applyBool(&cfg.Lock.Monitor, fc.Lock.Monitor)
	applyString(&cfg.Lock.Path, fc.Lock.Path)
	applyString(&cfg.Database.Path, fc.Database.Path)
	applyBool(&cfg.Database.Disable, fc.Database.Disable)
	applyString(&cfg.Log.Level, fc.Log.Level)

	cfg.Defects = defects
	return nil
}

func decodeSeconds(md toml.MetaData, p toml.Primitive) (time.Duration, error) {
	var seconds int64
	if err := md.PrimitiveDecode(p, &seconds); err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %d", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
