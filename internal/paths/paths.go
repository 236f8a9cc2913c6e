// Package paths finds where mapty keeps its config.yaml and its workout store.
//
// Both lookups walk an ordered list of candidates and take the first one
// that answers. Explicit choices (flags, config.yaml, environment) come
// first, then a project-local directory in the working directory, then the
// per-user platform location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Project-local directory names, looked up in the working directory.
const (
	DefaultConfigDirName = ".mapty"
	DefaultDataDirName   = ".mapty-db"
)

// Environment overrides.
const (
	EnvConfigDir = "MAPTY_CONFIG_DIR"
	EnvDataDir   = "MAPTY_DATA_DIR"
)

const appName = "mapty"

// platformDir is swapped out by tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userRoot describes a per-user base directory on Linux: an XDG variable
// and the path under $HOME used when it is unset.
type userRoot struct {
	xdgEnv   string
	fallback []string
}

var (
	configRoot = userRoot{xdgEnv: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	dataRoot   = userRoot{xdgEnv: "XDG_DATA_HOME", fallback: []string{".local", "share"}}
)

// appDir returns the mapty directory under r. Outside Linux, config and
// workouts share os.UserConfigDir (Application Support, %APPDATA%).
func (r userRoot) appDir() (string, error) {
	if runtime.GOOS != "linux" {
		base, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appName), nil
	}
	if base := os.Getenv(r.xdgEnv); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, r.fallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// DefaultConfigDir is where config.yaml lives when nothing overrides it,
// e.g. ~/.config/mapty on Linux.
func DefaultConfigDir() (string, error) { return configRoot.appDir() }

// DefaultDataDir is where workouts are stored when nothing overrides it,
// e.g. ~/.local/share/mapty on Linux.
func DefaultDataDir() (string, error) { return dataRoot.appDir() }

// ResolveConfigDir picks the config directory. Order: flag, MAPTY_CONFIG_DIR,
// ./.mapty when present, DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	if local, ok := localDir(DefaultConfigDirName); ok {
		return local, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the workout store directory. Order: flag, the
// data_dir value from config.yaml, MAPTY_DATA_DIR, ./.mapty-db when present,
// DefaultDataDir.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if dir := firstSet(flag, configYAMLValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	if local, ok := localDir(DefaultDataDirName); ok {
		return local, nil
	}
	return DefaultDataDir()
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// localDir reports ./name when it is an existing directory.
func localDir(name string) (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(cwd, name)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}
