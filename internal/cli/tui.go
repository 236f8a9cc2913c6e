package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/paths"
	"github.com/mesh-intelligence/mapty/internal/tui"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// logFileName is the TUI log inside the data directory. The screen belongs
// to bubbletea, so logs cannot go to stderr.
const logFileName = "mapty.log"

func newTUICmd() *cobra.Command {
	var noLocate bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive workout map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logOut, closeLog := openLogFile()
			defer closeLog()

			s, err := openSession(logOut)
			if err != nil {
				return err
			}
			defer s.Close()

			opts := tui.Options{
				Timeout: s.settings.Location.Timeout,
				Start:   positionOrZero(s),
			}
			if !noLocate {
				opts.Geo = s.locator
			}
			m := tui.New(s.orch, s.list, s.layer, opts)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return sysError(fmt.Errorf("run tui: %w", err))
			}
			if s.orch.MemoryOnly() {
				return fmt.Errorf("%w: changes after the first failure were not saved", types.ErrPersistence)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noLocate, "no-locate", false, "skip the startup position lookup")
	return cmd
}

// openLogFile opens the TUI log in the data directory, falling back to
// discarding output when the directory cannot be used.
func openLogFile() (io.Writer, func()) {
	dir, err := paths.ResolveDataDir(flags.dataDir, "")
	if err != nil {
		return io.Discard, func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}
