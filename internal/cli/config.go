// Config loading for the luftbuch CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/luftbuch/luftbuch/internal/paths"
	"github.com/luftbuch/luftbuch/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir            = "data_dir"
	cfgKeyAutoBackup         = "auto_backup"
	cfgKeyAutoBackupInterval = "auto_backup_interval"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir            string `yaml:"data_dir,omitempty"`
	AutoBackup         bool   `yaml:"auto_backup"`
	AutoBackupInterval string `yaml:"auto_backup_interval"`
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyAutoBackup, true)
	v.SetDefault(cfgKeyAutoBackupInterval, types.DefaultAutoBackupInterval)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory. Idempotent.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		AutoBackup:         true,
		AutoBackupInterval: types.DefaultAutoBackupInterval.String(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// resolveConfig combines flags, environment, and config.yaml into the
// effective Config.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, err
	}

	interval := v.GetDuration(cfgKeyAutoBackupInterval)
	if interval <= 0 {
		interval = types.DefaultAutoBackupInterval
	}
	cfg := types.Config{
		DataDir:            dataDir,
		AutoBackup:         v.GetBool(cfgKeyAutoBackup),
		AutoBackupInterval: interval,
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// jsonIndent renders v for --json output.
func jsonIndent(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
