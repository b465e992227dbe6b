package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/export"
	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				var payload []byte
				var err error
				switch format {
				case "json":
					payload, err = export.ExportJSON(store)
				case "csv":
					payload, err = export.ExportCSV(store)
				default:
					return fmt.Errorf("unknown export format %q (json or csv)", format)
				}
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(payload)
					return err
				}
				if err := os.WriteFile(out, payload, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format: json or csv")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export (a safety backup is created first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			return withStore(func(store *sqlite.Store) error {
				result, err := export.Import(store, payload, mode)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries, %d apartments (%s mode)\n",
					result.Entries, result.Apartments, mode)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", export.ModeMerge, "import mode: merge or replace")
	return cmd
}
