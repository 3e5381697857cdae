package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the demo binary and logging.
type Config struct {
	Log  LogConfig  `mapstructure:"log"`
	Data DataConfig `mapstructure:"data"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug, info, warn, error
	SeqURL string `mapstructure:"seq"`   // Seq ingestion endpoint, empty disables
}

// DataConfig points at the demo dataset.
type DataConfig struct {
	Path string `mapstructure:"path"` // CSV file to load at startup
}

// envPrefix namespaces the process environment, e.g. KEYTABLE_LOG_LEVEL.
const envPrefix = "KEYTABLE_"

// Load reads configuration from an optional .env file and the environment.
// Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")

	v.SetConfigFile(".env")
	if err := v.ReadInConfig(); err != nil {
		// The .env file is optional; anything but absence is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading .env: %w", err)
			}
		}
	}

	// KEYTABLE_LOG_LEVEL -> log.level
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]
		if strings.HasPrefix(key, envPrefix) {
			propKey := strings.TrimPrefix(key, envPrefix)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			v.Set(propKey, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
