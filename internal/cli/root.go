// Package cli implements the mapty command-line interface.
//
// Every command is one-shot: it loads the configuration, restores the saved
// workouts into a fresh orchestrator, feeds it the same intent events the
// terminal UI would, and prints the result.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	envFile   string
}

var flags rootFlags

// NewRootCmd creates the top-level "mapty" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}

	root := &cobra.Command{
		Use:   "mapty",
		Short: "Log running and cycling workouts on a map",
		Long: "Mapty keeps a log of running and cycling workouts pinned to the places\n" +
			"they happened. Use the subcommands for one-shot edits or `mapty tui`\n" +
			"for the interactive view.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadEnvFile,
	}

	// Global persistent flags.
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .mapty or the platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .mapty-db or the platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newRecenterCmd())
	root.AddCommand(newMapCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newTUICmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mapty:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// loadEnvFile loads MAPTY_* variables from the dotenv file if present.
// Variables already set in the environment win.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	if flags.envFile == "" {
		return nil
	}
	if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return sysError(fmt.Errorf("load %s: %w", flags.envFile, err))
	}
	return nil
}

// systemError marks failures of the environment rather than of user input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// exitCode maps an error to the process exit code. Storage and
// configuration failures are system errors; everything else is the user's.
func exitCode(err error) int {
	var se *systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, types.ErrPersistence):
		return exitSysError
	default:
		return exitUserError
	}
}
