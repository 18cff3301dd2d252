package config

import (
	"os"
	"strings"
)

// EnvPrefix prefixes every environment variable read by the config.
const EnvPrefix = "TODO_"

// loadFromEnv overrides cfg from TODO_* variables. Empty variables are
// ignored. If sources is non-nil, each overridden field is marked SourceEnv.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(field string, target *string) {
		if v := os.Getenv(envName(field)); v != "" {
			*target = v
			track(field)
		}
	}
	boolean := func(field string, target *bool) {
		if v := os.Getenv(envName(field)); v != "" {
			*target = boolFromString(v)
			track(field)
		}
	}

	str("data_dir", &cfg.DataDir)
	str("storage", &cfg.Storage)
	str("storage_key", &cfg.StorageKey)
	str("locale", &cfg.Locale)
	str("default_filter", &cfg.DefaultFilter)

	// Logging configuration
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
	str("log_file", &cfg.LogFile)
}

// envName returns the environment variable for a config field, e.g.
// "log_level" -> "TODO_LOG_LEVEL".
func envName(field string) string {
	return EnvPrefix + strings.ToUpper(field)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
