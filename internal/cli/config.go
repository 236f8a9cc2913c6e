// Config loading for the mapty CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mapty/internal/app"
	"github.com/mesh-intelligence/mapty/internal/geo"
	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeyStorageKey       = "storage_key"
	cfgKeyMapZoom          = "map.zoom"
	cfgKeyLocationProvider = "location.provider"
	cfgKeyLocationLat      = "location.lat"
	cfgKeyLocationLng      = "location.lng"
	cfgKeyLocationURL      = "location.url"
	cfgKeyLocationTimeout  = "location.timeout"
	cfgKeyValidationMax    = "validation.max"
	cfgKeyCadenceMax       = "validation.cadence_max"
	cfgKeyLogLevel         = "log.level"
	cfgKeyLogFormat        = "log.format"

	defaultBackend     = types.BackendSQLite
	defaultLocationURL = "http://ip-api.com/json/"
)

// envBindings maps config keys to the environment variables that override
// them. data_dir is resolved separately so config.yaml keeps precedence over
// MAPTY_DATA_DIR.
var envBindings = map[string]string{
	cfgKeyBackend:          "MAPTY_BACKEND",
	cfgKeyLocationProvider: "MAPTY_LOCATION_PROVIDER",
	cfgKeyLocationURL:      "MAPTY_LOCATION_URL",
	cfgKeyLogLevel:         "MAPTY_LOG_LEVEL",
	cfgKeyLogFormat:        "MAPTY_LOG_FORMAT",
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# mapty configuration

# Storage backend: sqlite, file or memory
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Key the workout list is stored under
storage_key: workouts

map:
  zoom: 13

# Where "my position" comes from: none, static or http
location:
  provider: none
  # lat: 51.5
  # lng: -0.12
  # url: http://ip-api.com/json/
  timeout: 5s

# Exclusive upper bounds for form fields
validation:
  max: 100
  cadence_max: 100

log:
  level: info   # debug, info, warn, error
  format: text  # text or json
`

// settings is the decoded configuration.
type settings struct {
	Backend    string
	DataDir    string
	StorageKey string
	Zoom       int
	Location   locationSettings
	Limits     intent.Limits
	Log        LogConfig
}

type locationSettings struct {
	Provider string
	Coords   types.Coords
	URL      string
	Timeout  time.Duration
}

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyStorageKey, types.DefaultStorageKey)
	v.SetDefault(cfgKeyMapZoom, app.DefaultZoom)
	v.SetDefault(cfgKeyLocationProvider, geo.ProviderNone)
	v.SetDefault(cfgKeyLocationURL, defaultLocationURL)
	v.SetDefault(cfgKeyLocationTimeout, geo.DefaultTimeout)
	v.SetDefault(cfgKeyValidationMax, intent.DefaultMax)
	v.SetDefault(cfgKeyCadenceMax, intent.DefaultMax)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// decodeSettings pulls typed settings out of v.
func decodeSettings(v *viper.Viper) settings {
	return settings{
		Backend:    v.GetString(cfgKeyBackend),
		DataDir:    v.GetString(cfgKeyDataDir),
		StorageKey: v.GetString(cfgKeyStorageKey),
		Zoom:       v.GetInt(cfgKeyMapZoom),
		Location: locationSettings{
			Provider: v.GetString(cfgKeyLocationProvider),
			Coords:   types.Coords{v.GetFloat64(cfgKeyLocationLat), v.GetFloat64(cfgKeyLocationLng)},
			URL:      v.GetString(cfgKeyLocationURL),
			Timeout:  v.GetDuration(cfgKeyLocationTimeout),
		},
		Limits: intent.Limits{
			Max:        v.GetFloat64(cfgKeyValidationMax),
			CadenceMax: v.GetFloat64(cfgKeyCadenceMax),
		},
		Log: LogConfig{
			Level:  v.GetString(cfgKeyLogLevel),
			Format: v.GetString(cfgKeyLogFormat),
		},
	}
}

// locator builds the configured geolocation provider.
func (s settings) locator() (app.Geolocator, error) {
	switch s.Location.Provider {
	case "", geo.ProviderNone:
		return geo.NoLocator{}, nil
	case geo.ProviderStatic:
		return geo.StaticLocator{Coords: s.Location.Coords}, nil
	case geo.ProviderHTTP:
		return geo.HTTPLocator{URL: s.Location.URL, Timeout: s.Location.Timeout}, nil
	}
	return nil, fmt.Errorf("unknown location provider %q (want none, static or http)", s.Location.Provider)
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
