// Package logging builds charmbracelet/log loggers and manages the log file
// the terminal UI writes to.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "todo"

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          Prefix,
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig builds a logger from string configuration values, as found
// in TOML files and environment variables.
func NewFromConfig(w io.Writer, level, format string, timestamps, caller bool) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	formatter, err := ParseFormatter(format)
	if err != nil {
		return nil, err
	}
	return New(w, Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: timestamps,
		ReportCaller:    caller,
		Prefix:          Prefix,
	}), nil
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// Formats lists the accepted formatter names.
var Formats = []string{"text", "json", "logfmt"}

// ParseLevel parses a level name. The empty string means warn.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level %q, must be one of: %s", level, strings.Join(Levels, ", "))
	}
}

// ParseFormatter parses a formatter name. The empty string means text.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q, must be one of: %s", format, strings.Join(Formats, ", "))
	}
}

// File is an append-only log file.
type File struct {
	Path string
	file *os.File
}

// OpenFile opens path for appending, creating its directory if needed.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &File{Path: path, file: f}, nil
}

// Writer returns the underlying file.
func (f *File) Writer() io.Writer {
	return f.file
}

// Close closes the log file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// TailLog copies the last n lines of the file at path to w.
// n <= 0 copies the whole file. A missing file writes nothing.
func TailLog(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		offset, err := tailOffset(file, n)
		if err != nil {
			return fmt.Errorf("find tail position: %w", err)
		}
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}
	_, err = io.Copy(w, file)
	return err
}

// tailChunk is how much tailOffset reads per step.
const tailChunk = 4096

// tailOffset returns the offset where the last n lines of file begin. It
// reads backwards from the end and counts newlines. A newline ending the
// file does not start another line.
func tailOffset(file *os.File, n int) (int64, error) {
	stat, err := file.Stat()
	if err != nil {
		return 0, err
	}
	size := stat.Size()

	buf := make([]byte, tailChunk)
	seen := 0
	for end := size; end > 0; {
		start := max(end-tailChunk, 0)
		chunk := buf[:end-start]
		if _, err := file.ReadAt(chunk, start); err != nil {
			return 0, err
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			pos := start + int64(i)
			if chunk[i] != '\n' || pos == size-1 {
				continue
			}
			seen++
			if seen == n {
				return pos + 1, nil
			}
		}
		end = start
	}
	return 0, nil
}
