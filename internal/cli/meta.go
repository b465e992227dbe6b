package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Read and write application settings",
	}
	cmd.AddCommand(newMetaGetCmd())
	cmd.AddCommand(newMetaSetCmd())
	cmd.AddCommand(newMetaListCmd())
	return cmd
}

func newMetaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a settings value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				meta, err := store.Metadata(args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, meta)
				}
				fmt.Fprintln(cmd.OutOrStdout(), meta.Value)
				return nil
			})
		},
	}
}

func newMetaSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				return store.SetMetadata(args[0], args[1])
			})
		},
	}
}

func newMetaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				all, err := store.AllMetadata()
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, all)
				}
				for _, m := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.Key, m.Value)
				}
				return nil
			})
		},
	}
}
