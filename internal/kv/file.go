package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/todo-go/internal/statedir"
)

// FileStorage keeps each key in its own file under Dir.
type FileStorage struct {
	Dir string
}

// NewFileStorage returns a FileStorage rooted at dir. The directory is
// created on the first write.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is empty")
	}
	return &FileStorage{Dir: dir}, nil
}

// Path returns the file that holds key.
func (s *FileStorage) Path(key string) string {
	return statedir.SlotPath(s.Dir, key)
}

// Get reads the file for key.
func (s *FileStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes value to a temporary file and renames it over the slot file,
// so a reader never sees a partial value.
func (s *FileStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, filepath.Clean(s.Path(key))); err != nil {
		return fmt.Errorf("replace slot %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for file storage.
func (s *FileStorage) Close() error {
	return nil
}
