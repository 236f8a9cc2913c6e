package types

import "errors"

// Config holds storage backend selection for the persistence sink.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	Key     string `json:"storage_key" yaml:"storage_key"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// DefaultStorageKey is the fixed key the workout list is stored under.
const DefaultStorageKey = "workouts"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendFile:   true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// StorageKey returns Key, or DefaultStorageKey when Key is empty.
func (c Config) StorageKey() string {
	if c.Key == "" {
		return DefaultStorageKey
	}
	return c.Key
}
