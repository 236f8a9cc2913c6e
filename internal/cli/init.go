package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mapty/internal/paths"
	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	StorageKey string `yaml:"storage_key"`
}

func newInitCmd() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mapty storage",
		Long: "Create the configuration and data directories, write config.yaml,\n" +
			"then initialize the storage backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, backend)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", types.BackendSQLite, "storage backend: sqlite, file or memory")
	return cmd
}

func runInit(cmd *cobra.Command, backend string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	// Keep backend and data_dir from an existing config.yaml when no flag
	// is given.
	existing := loadConfigFile(configDir)
	if !cmd.Flags().Changed("backend") && existing.Backend != "" {
		backend = existing.Backend
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, existing.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{Backend: backend, DataDir: dataDir, Key: existing.StorageKey}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("init: %w: %q", err, backend)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, cfg); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	// Attach then detach to create the data directory and schema.
	_, detach, err := attachSink(cfg)
	if err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	if flags.jsonMode {
		return printJSON(cmd, map[string]string{
			"config_dir": configDir,
			"data_dir":   dataDir,
			"backend":    backend,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mapty initialized (%s storage in %s)\n", backend, dataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path string, cfg types.Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	out := configFile{
		Backend:    cfg.Backend,
		DataDir:    cfg.DataDir,
		StorageKey: cfg.StorageKey(),
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return persist.WriteFileAtomic(path, data)
}

// loadConfigFile reads the init-managed fields of an existing config.yaml.
// Returns the zero value if the file does not exist or cannot be read.
func loadConfigFile(configDir string) configFile {
	var cfg configFile
	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return configFile{}
	}
	return cfg
}
