package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/view"
)

// Validate checks that every enumerated setting has an accepted value.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !contains(kv.Backends(), c.Storage) {
		errs = append(errs, fmt.Errorf("storage: %w: %q, must be one of: %s",
			kv.ErrUnknownBackend, c.Storage, strings.Join(kv.Backends(), ", ")))
	}
	if err := kv.ValidateKey(c.StorageKey); err != nil {
		errs = append(errs, fmt.Errorf("storage_key: %w", err))
	}
	if _, err := view.MessagesFor(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %w", err))
	}
	if _, err := todo.ParseFilter(c.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := logging.ParseFormatter(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
