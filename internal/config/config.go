// Package config loads mp4inspect settings from a config file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxSampleBytes caps how much a single sample read may allocate.
	DefaultMaxSampleBytes = 16 << 20

	envPrefix = "MP4INSPECT"
)

// Config holds mp4inspect settings
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	Listen         string `mapstructure:"listen"`
	MaxSampleBytes uint32 `mapstructure:"max_sample_bytes"`
	Pprof          bool   `mapstructure:"pprof"`
	MaxSessions    int    `mapstructure:"max_sessions"`
}

// New returns a viper instance with the mp4inspect search paths and defaults.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("mp4inspect")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.mp4inspect")
	v.AddConfigPath("/etc/mp4inspect")

	v.SetDefault("log_level", "info")
	v.SetDefault("listen", "0.0.0.0:8080")
	v.SetDefault("max_sample_bytes", DefaultMaxSampleBytes)
	v.SetDefault("pprof", false)
	v.SetDefault("max_sessions", 64)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and unmarshals the merged settings.
// An explicit path must exist; the search paths may hold nothing.
// Flags in fs, when given, override file and environment values; dashes in
// flag names map to underscores in keys.
func Load(v *viper.Viper, path string, fs *pflag.FlagSet) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("config: binding flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return &cfg, nil
}
