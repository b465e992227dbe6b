package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage backup snapshots",
	}
	cmd.AddCommand(newBackupCreateCmd())
	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())
	return cmd
}

func newBackupCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a manual backup snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				id, err := store.CreateBackup(false)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup %d created\n", id)
				return nil
			})
		},
	}
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backup snapshots, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				backups, err := store.Backups()
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, backups)
				}
				for _, b := range backups {
					kind := "manual"
					if b.Automatic {
						kind = "auto"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\tv%d\t%d entries, %d apartments\n",
						b.ID, time.UnixMilli(b.Timestamp).Format(time.RFC3339), kind,
						b.Version, len(b.Data.Entries), len(b.Data.Apartments))
				}
				return nil
			})
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a snapshot, replacing all live entries and apartments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid backup id %q", args[0])
			}
			return withStore(func(store *sqlite.Store) error {
				if err := store.RestoreBackup(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup %d restored\n", id)
				return nil
			})
		},
	}
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid backup id %q", args[0])
			}
			return withStore(func(store *sqlite.Store) error {
				if err := store.DeleteBackup(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup %d deleted\n", id)
				return nil
			})
		},
	}
}
