package types

import (
	"errors"
	"time"
)

// Config holds the settings the CLI resolves from flags, environment,
// and config.yaml before opening the store.
type Config struct {
	DataDir            string        `json:"data_dir" yaml:"data_dir"`
	AutoBackup         bool          `json:"auto_backup" yaml:"auto_backup"`
	AutoBackupInterval time.Duration `json:"auto_backup_interval" yaml:"auto_backup_interval"`
}

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data directory must not be empty")
	ErrIntervalInvalid = errors.New("auto-backup interval must be positive")
)

// DefaultAutoBackupInterval is the rolling window within which at most
// one automatic backup is created.
const DefaultAutoBackupInterval = 24 * time.Hour

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.AutoBackup && c.AutoBackupInterval <= 0 {
		return ErrIntervalInvalid
	}
	return nil
}
