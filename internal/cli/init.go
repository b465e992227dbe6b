package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the luftbuch store",
		Long:  "Create configuration and data directories, then initialize the database schema.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	store := sqlite.NewStore()
	if err := store.Open(cfg.DataDir); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	version, err := store.SchemaVersion()
	if err != nil {
		store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Luftbuch initialized at %s (schema v%d)\n", cfg.DataDir, version)
	return nil
}
