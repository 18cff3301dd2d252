package config

import (
	"flag"
)

// parseFlags defines the global flags on fs and parses args. If sources is
// non-nil, each flag given on the command line marks its field SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory holding the task slot")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage slot name")

	// Display
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Message locale (en, ja)")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, active, completed)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file used by the terminal UI")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources == nil {
		return nil
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data-dir":       "data_dir",
		"storage":        "storage",
		"key":            "storage_key",
		"locale":         "locale",
		"filter":         "default_filter",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
		"log-file":       "log_file",
	}
	fs.Visit(func(f *flag.Flag) {
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})
	return nil
}
