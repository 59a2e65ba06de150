package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/workledger/internal/paths"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "WORKLEDGER"
)

// envKeys are the config keys that WORKLEDGER_* variables may override.
// data_dir is resolved separately so that the config file outranks
// WORKLEDGER_DATA_DIR.
var envKeys = []string{
	"backend",
	"strict_updates",
	"legacy.backend",
	"legacy.key",
	"legacy.redis_addr",
	"legacy.redis_db",
	"log.level",
	"log.format",
	"metrics.textfile",
}

// loadConfig reads config.yaml from configDir, writing a default one on first
// run, and returns the merged configuration. DataDir holds the raw file
// value; the caller resolves it against flags and the environment.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v, types.DefaultConfig())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("data_dir", "")
	v.SetDefault("strict_updates", d.StrictUpdates)
	v.SetDefault("legacy.backend", d.Legacy.Backend)
	v.SetDefault("legacy.key", d.Legacy.Key)
	v.SetDefault("legacy.redis_addr", "")
	v.SetDefault("legacy.redis_db", 0)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.textfile", "")
}

// ensureDefaultConfigFile writes DefaultConfig as config.yaml unless the file
// already exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# workledger configuration\n# data_dir may be set here; --data-dir overrides it.\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
