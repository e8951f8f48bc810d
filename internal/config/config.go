// Package config loads truckopti's runtime configuration from defaults,
// an optional YAML file, and TRUCKOPTI_*-prefixed environment
// variables, in that precedence order (env overrides file overrides
// default), the same layering CloudSlash's root command sets up with
// viper.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the serve and pack commands need at
// startup. It is deliberately flat: nested optimization knobs live on
// domain.PackOptions, which requests carry per-call.
type Config struct {
	// HTTPAddr is the address the serve command binds to.
	HTTPAddr string `mapstructure:"http_addr"`

	// Workers is the packing worker pool size.
	Workers int `mapstructure:"workers"`
	// QueueDepth bounds how many pack requests may wait for a worker
	// before new submissions are rejected as Overloaded.
	QueueDepth int `mapstructure:"queue_depth"`

	// CacheCapacity bounds the number of packing plans held in the LRU
	// cache (0 means unbounded).
	CacheCapacity int `mapstructure:"cache_capacity"`
	// CacheTTL is how long a cached plan remains valid.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// MaxCombos is the configured fleet-recommendation pair-search cap.
	// It is loaded but not passed on to internal/recommend, which takes
	// the cap from each request's PackOptions.MaxCombos.
	MaxCombos int `mapstructure:"max_combos"`
	// MaxContainers is the configured cap on how many container types a
	// single fleet candidate may mix. Like MaxCombos it is not passed on;
	// requests use PackOptions.MaxContainers.
	MaxContainers int `mapstructure:"max_containers"`

	// LogLevel controls applog verbosity: debug, info, warn, or error.
	LogLevel string `mapstructure:"log_level"`
	// LogJSON switches applog to structured JSON line output.
	LogJSON bool `mapstructure:"log_json"`
}

// Default returns the built-in configuration, used when no file or
// environment variable overrides a field.
func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		Workers:       4,
		QueueDepth:    64,
		CacheCapacity: 1024,
		CacheTTL:      10 * time.Minute,
		MaxCombos:     20,
		MaxContainers: 3,
		LogLevel:      "info",
		LogJSON:       false,
	}
}

// Load builds a Config by starting from Default, then layering an
// optional YAML file at path (skipped entirely if path is empty or the
// file does not exist), then TRUCKOPTI_*-prefixed environment
// variables on top.
func Load(path string) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("queue_depth", d.QueueDepth)
	v.SetDefault("cache_capacity", d.CacheCapacity)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("max_combos", d.MaxCombos)
	v.SetDefault("max_containers", d.MaxContainers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	v.SetEnvPrefix("TRUCKOPTI")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
