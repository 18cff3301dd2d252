// Package view turns user intents into Store operations and derives what the
// screen shows from the Store after each one.
//
// Every intent ends in Render, which rebuilds the whole Frame: filter tabs,
// one row per visible task (or a placeholder), and the active count label.
// Nothing in a Frame is cached between renders.
package view

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// Tab is one filter control.
type Tab struct {
	Filter todo.Filter
	Label  string
	Active bool
}

// Row is one displayed task.
type Row struct {
	ID          todo.ID
	Text        string
	Completed   bool
	DeleteLabel string
}

// Frame is everything one render shows.
type Frame struct {
	Title       string
	Prompt      string
	Filter      todo.Filter
	Tabs        []Tab
	Rows        []Row
	Placeholder string // Set only when Rows is empty
	Count       int
	CountLabel  string
	Status      string
	StatusError bool
}

// View holds the current filter and a status line on top of a Store.
type View struct {
	store  *todo.Store
	filter todo.Filter
	msgs   Messages
	logger *log.Logger

	status      string
	statusError bool
}

// Option configures a View.
type Option func(*View)

// WithFilter sets the initial filter.
func WithFilter(f todo.Filter) Option {
	return func(v *View) {
		v.filter = f
	}
}

// WithMessages sets the message table. Fields left empty fall back to the
// default locale.
func WithMessages(msgs Messages) Option {
	return func(v *View) {
		v.msgs = msgs.withDefaults()
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// New returns a View over store showing all tasks in the default locale.
// If the store discarded malformed data on load, the status line says so.
func New(store *todo.Store, opts ...Option) *View {
	msgs, _ := MessagesFor(DefaultLocale)
	v := &View{
		store:  store,
		filter: todo.FilterAll,
		msgs:   msgs,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logging.Discard()
	}
	if err := store.LoadErr(); err != nil {
		v.setError(v.msgs.LoadFailed, err)
	}
	return v
}

// Filter returns the current filter.
func (v *View) Filter() todo.Filter {
	return v.filter
}

// Submit adds a task. It reports whether a task was added, which is when the
// input should be cleared. Blank text changes nothing.
func (v *View) Submit(ctx context.Context, text string) (bool, Frame) {
	task, added, err := v.store.Add(ctx, text)
	v.record(err)
	if added {
		v.logger.Info("Task added", "id", task.ID)
	}
	return added, v.Render()
}

// Toggle flips the completed flag of the task with id.
func (v *View) Toggle(ctx context.Context, id todo.ID) Frame {
	found, err := v.store.Toggle(ctx, id)
	v.record(err)
	if !found {
		v.logger.Debug("Toggle ignored, no such task", "id", id)
	}
	return v.Render()
}

// Delete removes the task with id.
func (v *View) Delete(ctx context.Context, id todo.ID) Frame {
	removed, err := v.store.Delete(ctx, id)
	v.record(err)
	if removed > 0 {
		v.logger.Info("Task deleted", "id", id)
	}
	return v.Render()
}

// ClearCompleted removes every completed task.
func (v *View) ClearCompleted(ctx context.Context) Frame {
	removed, err := v.store.ClearCompleted(ctx)
	v.record(err)
	v.logger.Info("Completed tasks cleared", "removed", removed)
	return v.Render()
}

// SetFilter changes the current filter and which tab is active.
func (v *View) SetFilter(f todo.Filter) Frame {
	v.filter = f
	return v.Render()
}

// Render derives a fresh Frame from the Store.
func (v *View) Render() Frame {
	frame := Frame{
		Title:       v.msgs.Title,
		Prompt:      v.msgs.Prompt,
		Filter:      v.filter,
		Count:       v.store.ActiveCount(),
		Status:      v.status,
		StatusError: v.statusError,
	}
	for _, f := range todo.Filters() {
		frame.Tabs = append(frame.Tabs, Tab{
			Filter: f,
			Label:  v.msgs.Filters[f],
			Active: f == v.filter,
		})
	}

	tasks := v.store.Filtered(v.filter)
	if len(tasks) == 0 {
		if v.filter == todo.FilterCompleted {
			frame.Placeholder = v.msgs.NoCompleted
		} else {
			frame.Placeholder = v.msgs.NoTasks
		}
	}
	for _, t := range tasks {
		frame.Rows = append(frame.Rows, Row{
			ID:          t.ID,
			Text:        t.Text,
			Completed:   t.Completed,
			DeleteLabel: v.msgs.Delete,
		})
	}
	frame.CountLabel = v.msgs.CountLabel(frame.Count)
	return frame
}

// record updates the status line after an intent. Any intent that does not
// fail clears the previous status.
func (v *View) record(err error) {
	if err == nil {
		v.status = ""
		v.statusError = false
		return
	}
	v.setError(v.msgs.SaveFailed, err)
}

func (v *View) setError(msg string, err error) {
	v.status = msg + ": " + err.Error()
	v.statusError = true
	v.logger.Error(msg, "err", err)
}
