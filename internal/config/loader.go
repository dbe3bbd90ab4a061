package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. MCI_SESSION_RESUME_WINDOW
const EnvPrefix = "MCI"

// Load loads and merges configuration from global, project, and environment sources.
// Missing or unreadable files leave the defaults in place.
func Load(projectDir string) (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(filepath.Join(home, ".mci", "config.yaml"), cfg); err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	// Project config lives inside the store so it travels with the memory
	projectPath := ProjectConfigPath(projectDir, cfg)
	if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
		return cfg, err
	}

	if err := loadEnv(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// loadEnv applies MCI_* overrides for every known key
func loadEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	found := false
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			found = true
		}
	}
	if !found {
		return nil
	}

	return v.Unmarshal(cfg)
}

var envKeys = []string{
	"store.dir",
	"store.lookback_days",
	"session.resume_window",
	"session.crash_grace",
	"snapshot.state_min_bytes",
	"snapshot.checkpoint_interval",
	"markers.per_turn_limit",
	"pressure.context_limit",
	"pressure.advisory",
	"pressure.warning",
	"pressure.emergency",
	"transcript.search_root",
	"hook.input_timeout",
	"catalog.enabled",
	"log.level",
}

// StorePath resolves the store base directory for a project
func StorePath(projectDir string, cfg *Config) string {
	dir := ExpandHome(cfg.Store.Dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectDir, dir)
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mci", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath(projectDir string, cfg *Config) string {
	return filepath.Join(StorePath(projectDir, cfg), "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
