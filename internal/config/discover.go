// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath names the environment variable that overrides config discovery.
const EnvConfigPath = "JUSTPASTE_CONFIG"

// SystemPath is the last location Discover checks.
const SystemPath = "/etc/justpaste/config.toml"

// ErrNotFound is returned by Discover when no search location holds a config.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the per-user config path, honoring XDG_CONFIG_HOME.
// This is where `justpaste init` writes.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "justpaste", "config.toml")
}

// SearchPaths lists the locations Discover tries, in order, when
// JUSTPASTE_CONFIG is unset.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), SystemPath}
}

// Discover returns the first config file found. JUSTPASTE_CONFIG, when set,
// is authoritative: a missing file there is an error rather than a reason
// to keep searching.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Resolve loads the daemon's configuration. An empty path means discover
// one; if discovery finds nothing the daemon runs on Default() and the
// returned path is empty. Every other failure is returned.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		switch {
		case errors.Is(err, ErrNotFound):
			return Default(), "", nil
		case err != nil:
			return nil, "", err
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
