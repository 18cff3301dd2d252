package config

import (
	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/statedir"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/view"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir       = "~/" + statedir.Dir
	DefaultStorage       = kv.BackendFile
	DefaultStorageKey    = statedir.DefaultStorageKey
	DefaultLocale        = view.DefaultLocale
	DefaultFilter        = string(todo.FilterAll)
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultLogTimestamps = false
	DefaultLogCaller     = false
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Storage    string `toml:"storage"`
	StorageKey string `toml:"storage_key"`

	// Display
	Locale        string `toml:"locale"`
	DefaultFilter string `toml:"default_filter"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"` // Empty means <data_dir>/todo.log

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// LogPath returns the log file the TUI writes to.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return statedir.LogPath(c.DataDir)
}

// Filter returns the configured initial filter. Invalid values fall back to all.
func (c *Config) Filter() todo.Filter {
	f, err := todo.ParseFilter(c.DefaultFilter)
	if err != nil {
		return todo.FilterAll
	}
	return f
}
