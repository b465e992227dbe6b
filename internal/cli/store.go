package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/luftbuch/luftbuch/internal/autobackup"
	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

// withStore resolves the configuration, opens the store, runs the
// auto-backup window check if enabled, executes fn, and closes the
// store. Store failures propagate to the caller; only the auto-backup
// convenience check is downgraded to a warning (the next invocation
// tries again).
func withStore(fn func(store *sqlite.Store) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	store := sqlite.NewStore()
	if err := store.Open(cfg.DataDir); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if cfg.AutoBackup {
		runner := autobackup.NewRunner(store, cfg.AutoBackupInterval, time.Hour)
		if err := runner.CheckOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: automatic backup failed: %v\n", err)
		}
	}
	return fn(store)
}

// currentConfig exposes the resolved configuration to commands that
// need it without opening the store.
func currentConfig() (types.Config, error) {
	return resolveConfig()
}
