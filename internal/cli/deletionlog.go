package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newDeletionLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deletionlog",
		Short: "Inspect and prune the deletion audit log",
	}
	cmd.AddCommand(newDeletionLogListCmd())
	cmd.AddCommand(newDeletionLogPruneCmd())
	return cmd
}

func newDeletionLogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deletion tombstones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				log, err := store.DeletionLog()
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, log)
				}
				for _, d := range log {
					line := fmt.Sprintf("%d\t%s\t%s\t%s",
						d.ID, d.Type, d.OriginalID, time.UnixMilli(d.DeletedAt).Format(time.RFC3339))
					if d.Reason != "" {
						line += "\t" + d.Reason
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}

func newDeletionLogPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove tombstones older than a cutoff (all, if no cutoff)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				var cutoff int64
				if olderThan > 0 {
					cutoff = time.Now().Add(-olderThan).UnixMilli()
				}
				n, err := store.PruneDeletionLog(cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d tombstones\n", n)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff, e.g. 2160h for 90 days")
	return cmd
}
