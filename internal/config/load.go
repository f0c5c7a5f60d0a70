package config

import (
	"os"
	"strings"
	"time"
)

// Loader tracks the configuration file's modification time across ticks
// so the control loop only reparses when the file has actually changed.
type Loader struct {
	Path string

	lastModTime time.Time
	parsed      bool
}

// NewLoader creates a Loader for path. The first call to NeedsReparse
// always reports true, since there is no previous parse to compare
// against.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// NeedsReparse reports whether the file's mtime differs from the value
// recorded at the last successful Parse call (or this is the first
// call ever).
func (l *Loader) NeedsReparse() (bool, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return false, err
	}
	return !l.parsed || !info.ModTime().Equal(l.lastModTime), nil
}

// Parse reads and parses the configuration file, applies defaults, and
// records the file's mtime as the new reference point. The mtime is
// recorded even when the parse produced errors, so a broken file is
// not re-reported every tick until it changes again.
//
// LogDir is cleared from the returned Config on every parse after the
// first, so a caller that simply overwrites its LogDir field from
// cfg.LogDir naturally picks up the honored-only-at-first-startup rule
// without special-casing it at the call site.
func (l *Loader) Parse() (*Config, []error, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, nil, err
	}

	cfg, errs := Parse(strings.NewReader(string(data)))
	ApplyDefaults(cfg)

	firstParse := !l.parsed
	if !firstParse {
		cfg.LogDir = ""
	}

	if info, statErr := os.Stat(l.Path); statErr == nil {
		l.lastModTime = info.ModTime()
	}
	l.parsed = true

	return cfg, errs, nil
}
