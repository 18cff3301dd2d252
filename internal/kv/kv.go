// Package kv provides the durable key-value storage that holds task slots.
//
// A slot is a single named value overwritten wholesale on every write.
// Three backends are available:
//
//   - "file": one file per key in a directory, replaced atomically on write
//   - "sqlite": a kv table in a SQLite database (modernc.org/sqlite)
//   - "memory": an in-process map, used by tests
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nibzard/todo-go/internal/statedir"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrInvalidKey is returned for keys that are empty or contain characters
	// outside [A-Za-z0-9._-].
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage is a durable key-value store of opaque byte values.
type Storage interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the storage.
	Close() error
}

// Backends returns the backend names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open opens the named backend rooted at dir.
func Open(ctx context.Context, backend, dir string) (Storage, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStorage(dir)
	case BackendSQLite:
		return OpenSQLite(ctx, statedir.DatabasePath(dir))
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Location describes where a backend keeps key, for diagnostics.
func Location(backend, dir, key string) string {
	switch backend {
	case BackendSQLite:
		return fmt.Sprintf("%s (key %q)", statedir.DatabasePath(dir), key)
	case BackendMemory:
		return "memory"
	default:
		return filepath.Clean(statedir.SlotPath(dir, key))
	}
}

// ValidateKey reports whether key can be used with every backend.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
