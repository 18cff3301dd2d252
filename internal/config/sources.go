package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/todo-go/internal/statedir"
)

// projectConfigNames are the config file names looked up in the working directory.
var projectConfigNames = []string{statedir.DefaultConfigFile, "." + statedir.DefaultConfigFile}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todo/todo.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := statedir.ConfigPath(filepath.Join(home, statedir.Dir))
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "todo", statedir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Storage = DefaultStorage
	cfg.StorageKey = DefaultStorageKey
	cfg.Locale = DefaultLocale
	cfg.DefaultFilter = DefaultFilter

	// Logging defaults
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = DefaultLogTimestamps
	cfg.LogCaller = DefaultLogCaller
	cfg.LogFile = ""
}

// GetConfigFile returns the highest priority config file that was read, or
// the empty string if none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Fields returns the tracked field names in display order.
func (cws *ConfigWithSources) Fields() []string {
	return configFields()
}

// Value returns the effective value of a tracked field as a string.
func (cws *ConfigWithSources) Value(field string) string {
	c := cws.Config
	switch field {
	case "data_dir":
		return c.DataDir
	case "storage":
		return c.Storage
	case "storage_key":
		return c.StorageKey
	case "locale":
		return c.Locale
	case "default_filter":
		return c.DefaultFilter
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return formatBool(c.LogTimestamps)
	case "log_caller":
		return formatBool(c.LogCaller)
	case "log_file":
		return c.LogPath()
	default:
		return ""
	}
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
