// Package daemonconfig holds the ambient daemon settings — everything
// about how the daemon runs that is not part of the hotkey DSL itself
// (spec §6's "ruleset config" vs. the daemon's own settings are two
// separate files, mirroring the teacher's split between its DSL-less
// settings file and the per-feature configs it composed underneath).
package daemonconfig

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the daemon's own settings, independent of the loaded
// ruleset. It never appears in the hotkey DSL grammar (spec §4.B).
type Config struct {
	// ConfigPath overrides the default mkhdrc discovery order below.
	ConfigPath string `toml:"config_path"`
	// NoHotload disables the file watcher that triggers RequestReload.
	NoHotload bool `toml:"no_hotload"`
	// Verbose sends the daemon's log output to stderr instead of discarding it.
	Verbose bool `toml:"verbose"`
	// Device pins a specific evdev device path instead of auto-detecting.
	Device string `toml:"device"`
	// PIDDir overrides where the daemon's lock/pid file is created.
	PIDDir string `toml:"pid_dir"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		ConfigPath: "",
		NoHotload:  false,
		Verbose:    false,
		Device:     "",
		PIDDir:     os.TempDir(),
	}
}

// DefaultPath returns the default daemon-settings file path
// (~/.config/mkhd/daemon.toml). It is distinct from the mkhdrc hotkey
// files found by ResolveRulesetPath.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mkhd", "daemon.toml")
}

// ResolveRulesetPath implements spec §6's config discovery order:
// an explicit override first, then $XDG_CONFIG_HOME/mkhd/mkhdrc, then
// $HOME/.config/mkhd/mkhdrc, then $HOME/.mkhdrc. It returns the first
// candidate that exists; if none exist it returns the last candidate
// ($HOME/.mkhdrc when a home directory is known) so callers get a sensible error
// message out of a failed os.ReadFile rather than an empty path.
func ResolveRulesetPath(override string) string {
	if override != "" {
		return override
	}

	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "mkhd", "mkhdrc"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "mkhd", "mkhdrc"),
			filepath.Join(home, ".mkhdrc"),
		)
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[len(candidates)-1]
	}
	return ".mkhdrc"
}

// Save writes cfg as TOML to path, creating parent directories as
// needed. The write goes to a temp file in the same directory and is
// renamed into place, so a crash mid-write never corrupts an existing
// settings file.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".mkhd-daemon-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML settings file at path. A missing file is not an
// error: it yields the default Config, matching the teacher's
// "absence means defaults" convention.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
