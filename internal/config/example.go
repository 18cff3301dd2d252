package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# Directory holding the task slot (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.todo"

# Storage backend: file, sqlite, or memory
# file keeps <data_dir>/<storage_key>.json, sqlite keeps <data_dir>/todo.db
storage = "file"

# Name of the slot holding the task list
storage_key = "todos"

# Message locale: en or ja
locale = "en"

# Filter shown at startup: all, active, or completed
default_filter = "all"

# Logging
log_level = "warn"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Log file used by the terminal UI (default: <data_dir>/todo.log)
# log_file = "~/.todo/todo.log"
`
}
