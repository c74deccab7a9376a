package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/wikigames/internal/logging"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "WIKIGAMES"
)

// Config keys.
const (
	cfgKeyDataDir        = "data_dir"
	cfgKeyLogLevel       = "log.level"
	cfgKeyLogFormat      = "log.format"
	cfgKeyLogOutput      = "log.output"
	cfgKeyMetricsEnabled = "metrics.enabled"
)

// Config is the content of config.yaml.
type Config struct {
	DataDir string         `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Log     logging.Config `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// MetricsConfig toggles in-process metrics collection.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns the values used when config.yaml omits a key.
func DefaultConfig() Config {
	return Config{Log: logging.DefaultConfig()}
}

// loadConfig reads config.yaml from configDir, layering WIKIGAMES_* env
// vars on top of it and the defaults below it. A missing file is not an
// error.
func loadConfig(configDir string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, def.DataDir)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)
	v.SetDefault(cfgKeyLogOutput, def.Log.Output)
	v.SetDefault(cfgKeyMetricsEnabled, def.Metrics.Enabled)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// writeConfigIfMissing writes cfg to configDir/config.yaml unless the file
// already exists. It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg Config) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# wikigames configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
