package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/persist"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workouts as JSONL",
		Long:  "Write every workout as one JSON record per line, oldest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				ws := s.orch.Workouts()
				if out == "" {
					return persist.EncodeJSONL(cmd.OutOrStdout(), ws)
				}
				if err := persist.WriteJSONLFile(out, ws); err != nil {
					return sysError(fmt.Errorf("export: %w", err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d workouts to %s\n", len(ws), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import workouts from a JSONL export",
		Long: "Append the workouts of a JSONL export. Workouts whose ID is already\n" +
			"present, workouts outside the validation limits and lines that do not\n" +
			"parse are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			defer f.Close()

			ws, bad, err := persist.DecodeJSONL(f)
			if err != nil {
				return sysError(fmt.Errorf("import: %w", err))
			}
			return withSession(cmd, func(s *session) error {
				added, skipped, err := s.orch.Import(ws)
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"added": added, "skipped": len(skipped), "malformed": bad})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d workouts (%d skipped, %d malformed lines)\n", added, len(skipped), bad)
				return nil
			})
		},
	}
}
