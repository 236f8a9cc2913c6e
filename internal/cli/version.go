package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/pkg/mapty"
)

const modulePath = "github.com/mesh-intelligence/mapty"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mapty version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"version": mapty.Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mapty v%s\nmodule: %s\n", mapty.Version, modulePath)
			return nil
		},
	}
}
