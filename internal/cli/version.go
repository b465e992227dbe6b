package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
)

// version is the CLI release version, overridable at link time.
var version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return printJSON(cmd, map[string]any{
					"version":       version,
					"schemaVersion": sqlite.SchemaVersion,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "luftbuch %s (schema v%d)\n", version, sqlite.SchemaVersion)
			return nil
		},
	}
}
