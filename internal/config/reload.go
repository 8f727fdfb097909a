package config

import "time"

// Reloader re-reads session durations from the config file the running
// process was started with. Environment overrides are applied again so a
// reload never undoes them.
type Reloader struct {
	path string
}

// NewReloader returns a Reloader for cfg. It reloads nothing when cfg was not
// loaded from a file.
func NewReloader(cfg *Config) *Reloader {
	return &Reloader{path: cfg.File}
}

// Durations returns the current work and break durations and any defects
// found while reading them.
func (r *Reloader) Durations(fallbackWork, fallbackBreak time.Duration) (time.Duration, time.Duration, []Defect, error) {
	if r.path == "" {
		return fallbackWork, fallbackBreak, nil, nil
	}

	cfg := Default()
	cfg.Session.Work, cfg.Session.Break = fallbackWork, fallbackBreak
	if err := LoadFile(cfg, r.path); err != nil {
		return fallbackWork, fallbackBreak, nil, err
	}
	LoadFromEnv(cfg)
	return cfg.Session.Work, cfg.Session.Break, cfg.Defects, nil
}
