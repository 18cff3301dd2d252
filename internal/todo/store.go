package todo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/statedir"
)

// Store owns the ordered task list and writes it to a single storage slot
// after every mutation. A Store is not safe for concurrent use.
type Store struct {
	storage kv.Storage
	key     string
	clock   func() time.Time
	ids     *IDSource
	logger  *log.Logger

	tasks   []Task
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage slot name. The default is "todos".
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithClock sets the clock used for ids and creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.clock = now
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open creates a Store backed by storage and loads the slot.
//
// A missing slot gives an empty list. A malformed slot also gives an empty
// list: the raw value is copied to "<key>.corrupt" and the cause is kept in
// LoadErr. Open still succeeds. Only storage failures are returned.
func Open(ctx context.Context, storage kv.Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, errors.New("todo store: storage is nil")
	}
	s := &Store{
		storage: storage,
		key:     statedir.DefaultStorageKey,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if err := kv.ValidateKey(s.key); err != nil {
		return nil, err
	}
	s.ids = NewIDSource(s.clock)

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		s.tasks = []Task{}
		s.logger.Debug("No stored tasks", "key", s.key)
		return nil
	}

	tasks, err := Decode(data)
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			return fmt.Errorf("load tasks: %w", err)
		}
		s.setAside(ctx, data, err)
		return nil
	}

	s.tasks = tasks
	for _, t := range tasks {
		s.ids.Observe(t.ID)
	}
	s.logger.Debug("Loaded tasks", "key", s.key, "count", len(tasks))
	return nil
}

// setAside sets a malformed slot value aside and starts with an empty list.
// An existing backup holding other bytes is kept and the value goes to a
// timestamped key instead.
func (s *Store) setAside(ctx context.Context, raw []byte, cause error) {
	s.tasks = []Task{}
	s.loadErr = cause

	backup := statedir.CorruptKey(s.key)
	existing, ok, err := s.storage.Get(ctx, backup)
	switch {
	case err != nil:
		s.logger.Error("Could not read previous backup", "key", backup, "err", err)
		return
	case ok && bytes.Equal(existing, raw):
		s.logger.Warn("Stored tasks are malformed, starting empty", "key", s.key, "backup", backup, "err", cause)
		return
	case ok:
		backup = fmt.Sprintf("%s-%d", backup, s.clock().UnixMilli())
	}

	if err := s.storage.Set(ctx, backup, raw); err != nil {
		s.logger.Error("Could not keep malformed tasks", "key", backup, "err", err)
		return
	}
	s.logger.Warn("Stored tasks are malformed, starting empty", "key", s.key, "backup", backup, "err", cause)
}

// LoadErr returns why the stored list was discarded on Open, or nil.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Key returns the storage slot name.
func (s *Store) Key() string {
	return s.key
}

// Add appends a task with the trimmed text. Blank text is ignored and
// reports added=false. Invalid UTF-8 is replaced with U+FFFD so the stored
// text reloads unchanged.
func (s *Store) Add(ctx context.Context, text string) (task Task, added bool, err error) {
	text = strings.TrimSpace(strings.ToValidUTF8(text, "\uFFFD"))
	if text == "" {
		return Task{}, false, nil
	}

	task = Task{
		ID:        s.ids.Next(),
		Text:      text,
		Completed: false,
		CreatedAt: s.clock().UTC(),
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("Added task", "id", task.ID, "text", task.Text)
	return task, true, s.save(ctx)
}

// Toggle flips the completed flag of the first task with id.
// An unknown id is ignored and nothing is written.
func (s *Store) Toggle(ctx context.Context, id ID) (found bool, err error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.logger.Debug("Toggled task", "id", id, "completed", s.tasks[i].Completed)
			return true, s.save(ctx)
		}
	}
	return false, nil
}

// Delete removes every task with id and returns how many were removed.
func (s *Store) Delete(ctx context.Context, id ID) (removed int, err error) {
	removed = s.removeWhere(func(t Task) bool { return t.ID == id })
	s.logger.Debug("Deleted task", "id", id, "removed", removed)
	return removed, s.save(ctx)
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted(ctx context.Context) (removed int, err error) {
	removed = s.removeWhere(func(t Task) bool { return t.Completed })
	s.logger.Debug("Cleared completed tasks", "removed", removed)
	return removed, s.save(ctx)
}

func (s *Store) removeWhere(match func(Task) bool) int {
	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	return removed
}

// Filtered returns the tasks matching f, in list order.
func (s *Store) Filtered(f Filter) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ActiveCount returns the number of tasks not completed.
func (s *Store) ActiveCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Tasks returns a copy of the whole list.
func (s *Store) Tasks() []Task {
	return s.Filtered(FilterAll)
}

// Get returns the first task with id, or nil if none.
func (s *Store) Get(id ID) *Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			t := s.tasks[i]
			return &t
		}
	}
	return nil
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) save(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to save tasks", "key", s.key, "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
