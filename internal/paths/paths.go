// Package paths resolves where luftbuch keeps its configuration and
// its database files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDirName is the CWD-relative data directory used when no
// flag, config value, or environment override is active.
const DefaultDataDirName = ".luftbuch-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LUFTBUCH_CONFIG_DIR"
	EnvDataDir   = "LUFTBUCH_DATA_DIR"
)

const appDirName = "luftbuch"

// ResolveConfigDir returns the configuration directory. Precedence:
// flag > LUFTBUCH_CONFIG_DIR > platform default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory. Precedence: flag >
// config.yaml value > LUFTBUCH_DATA_DIR > CWD-relative default.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, dir := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/luftbuch on Linux
// (fallback ~/.config/luftbuch) and the os.UserConfigDir location
// elsewhere.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return platformDir()
}

// DefaultDataDir returns $XDG_DATA_HOME/luftbuch on Linux (fallback
// ~/.local/share/luftbuch) and the os.UserConfigDir location
// elsewhere.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	}
	return platformDir()
}

// xdgDir resolves an XDG base directory, falling back to the given
// path under $HOME when the variable is unset.
func xdgDir(envVar string, fallback ...string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// platformDir is the non-Linux location. os.UserConfigDir resolves to
// ~/Library/Application Support on macOS and %APPDATA% on Windows.
func platformDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}
