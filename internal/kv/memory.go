package kv

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process Storage. Values are copied on the way in
// and out so callers cannot alias stored bytes.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailSet, when non-nil, is returned by Set instead of storing.
	FailSet error
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// Get returns a copy of the value for key.
func (s *MemoryStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value, or returns FailSet when it is set.
func (s *MemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		return s.FailSet
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}
