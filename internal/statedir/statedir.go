// Package statedir provides constants and utilities for the todo data directory layout.
package statedir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the todo state directory inside the user's home.
	Dir = ".todo"

	// DefaultStorageKey is the key of the slot holding the task list.
	DefaultStorageKey = "todos"

	// SlotExt is the file extension of a slot in the file backend.
	SlotExt = ".json"

	// CorruptSuffix is appended to a key when a malformed slot is set aside.
	CorruptSuffix = ".corrupt"

	// DefaultDatabaseFile is the SQLite database file name (inside the data dir).
	DefaultDatabaseFile = "todo.db"

	// DefaultLogFile is the log file name used while the TUI owns the terminal.
	DefaultLogFile = "todo.log"

	// DefaultConfigFile is the config file name.
	DefaultConfigFile = "todo.toml"
)

// DefaultDataDir returns ~/.todo, or .todo relative to the working
// directory when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// SlotPath returns the file backing a key in the file backend.
func SlotPath(dataDir, key string) string {
	return joinPath(dataDir, key+SlotExt)
}

// DatabasePath returns the full path to the SQLite database within a data directory.
func DatabasePath(dataDir string) string {
	return joinPath(dataDir, DefaultDatabaseFile)
}

// LogPath returns the full path to the log file within a data directory.
func LogPath(dataDir string) string {
	return joinPath(dataDir, DefaultLogFile)
}

// ConfigPath returns the full path to the config file within a data directory.
func ConfigPath(dataDir string) string {
	return joinPath(dataDir, DefaultConfigFile)
}

// CorruptKey returns the key a malformed slot is copied to.
func CorruptKey(key string) string {
	return key + CorruptSuffix
}

func joinPath(dataDir, file string) string {
	if dataDir == "." || dataDir == "" {
		return file
	}
	return dataDir + string(filepath.Separator) + file
}
