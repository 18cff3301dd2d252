package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/view"
)

func newTestModel(t *testing.T) (*Model, *todo.Store) {
	t.Helper()
	at := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	store, err := todo.Open(context.Background(), kv.NewMemoryStorage(),
		todo.WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("todo.Open failed: %v", err)
	}
	return NewModel(context.Background(), view.New(store)), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func addTask(t *testing.T, m *Model, text string) {
	t.Helper()
	send(t, m, runes("a"), runes(text), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAddThroughInput(t *testing.T) {
	m, store := newTestModel(t)

	send(t, m, runes("a"))
	if !m.InputMode() {
		t.Fatal("a should focus the input")
	}
	send(t, m, runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	if store.Len() != 1 || store.Tasks()[0].Text != "Buy milk" {
		t.Fatalf("store: got %+v", store.Tasks())
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if !m.InputMode() {
		t.Error("input should stay focused after submit")
	}
	if len(m.Frame().Rows) != 1 {
		t.Errorf("rows: got %d, want 1", len(m.Frame().Rows))
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InputMode() {
		t.Error("esc should leave the input")
	}
}

func TestBlankSubmitKeepsInput(t *testing.T) {
	m, store := newTestModel(t)
	send(t, m, runes("i"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if store.Len() != 0 {
		t.Errorf("blank submit added a task")
	}
	if m.input.Value() != "   " {
		t.Errorf("input should be kept, got %q", m.input.Value())
	}
}

func TestTypingQDoesNotQuitInInput(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, runes("a"))
	if cmd := send(t, m, runes("q")); isQuit(cmd) {
		t.Error("q in input mode should type, not quit")
	}
	if m.input.Value() != "q" {
		t.Errorf("input: got %q, want q", m.input.Value())
	}
}

func TestToggleAndDeleteAtCursor(t *testing.T) {
	m, store := newTestModel(t)
	addTask(t, m, "A")
	addTask(t, m, "B")

	send(t, m, runes("j"))
	if m.Cursor() != 1 {
		t.Fatalf("cursor: got %d, want 1", m.Cursor())
	}
	send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !store.Tasks()[1].Completed {
		t.Error("space should toggle B")
	}
	send(t, m, runes("x"))
	if store.Tasks()[1].Completed {
		t.Error("x should toggle B back")
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	send(t, m, runes("d"))
	if got := store.Tasks(); len(got) != 1 || got[0].Text != "B" {
		t.Errorf("after delete: got %+v", got)
	}
	if m.Cursor() != 0 {
		t.Errorf("cursor: got %d, want 0", m.Cursor())
	}
}

func TestCursorStaysInRange(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, runes("j"), runes("k"), tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 0 {
		t.Errorf("cursor on empty list: got %d", m.Cursor())
	}
	// Toggle with no rows is a no-op.
	send(t, m, runes("x"), runes("d"))

	addTask(t, m, "A")
	addTask(t, m, "B")
	send(t, m, runes("j"), runes("j"), runes("j"))
	if m.Cursor() != 1 {
		t.Errorf("cursor: got %d, want 1", m.Cursor())
	}
	send(t, m, runes("d"))
	if m.Cursor() != 0 {
		t.Errorf("cursor after deleting last row: got %d, want 0", m.Cursor())
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newTestModel(t)
	addTask(t, m, "A")
	addTask(t, m, "B")
	send(t, m, runes("x")) // complete A

	send(t, m, runes("2"))
	if m.Frame().Filter != todo.FilterActive || len(m.Frame().Rows) != 1 || m.Frame().Rows[0].Text != "B" {
		t.Errorf("active frame: %+v", m.Frame())
	}
	send(t, m, runes("3"))
	if m.Frame().Filter != todo.FilterCompleted || len(m.Frame().Rows) != 1 || m.Frame().Rows[0].Text != "A" {
		t.Errorf("completed frame: %+v", m.Frame())
	}
	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Frame().Filter != todo.FilterAll {
		t.Errorf("tab from completed: got %q, want all", m.Frame().Filter)
	}
	send(t, m, runes("1"))
	if len(m.Frame().Rows) != 2 {
		t.Errorf("all rows: got %d", len(m.Frame().Rows))
	}
}

func TestClearCompletedKey(t *testing.T) {
	m, store := newTestModel(t)
	addTask(t, m, "A")
	addTask(t, m, "B")
	send(t, m, runes("x"), runes("c"))
	if got := store.Tasks(); len(got) != 1 || got[0].Text != "B" {
		t.Errorf("after clear: got %+v", got)
	}
	if m.Frame().CountLabel != "1 task" {
		t.Errorf("CountLabel: got %q", m.Frame().CountLabel)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	if !isQuit(send(t, m, runes("q"))) {
		t.Error("q should quit")
	}
	if !isQuit(send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Error("ctrl+c should quit")
	}
	send(t, m, runes("a"))
	if !isQuit(send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Error("ctrl+c should quit from input mode")
	}
}

func TestHelpScreen(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, runes("?"))
	out := m.View()
	if !strings.Contains(out, "Keyboard Shortcuts") || !strings.Contains(out, "clear completed") {
		t.Errorf("help view:\n%s", out)
	}
	send(t, m, runes("j"))
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("any key should close help")
	}
}

func TestViewShowsFrame(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"Todo", "All", "Active", "Completed", "No tasks", "0 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("empty view missing %q:\n%s", want, out)
		}
	}

	addTask(t, m, "Walk dog")
	out = m.View()
	for _, want := range []string{"[ ]", "Walk dog", "1 task", "delete"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No tasks") {
		t.Errorf("placeholder shown with rows:\n%s", out)
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.input.Width != 76 {
		t.Errorf("input width: got %d, want 76", m.input.Width)
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	m, _ := newTestModel(t)
	var out bytes.Buffer
	err := RunTUI(context.Background(), m.view, WithIO(strings.NewReader(""), &out))
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", err)
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("buffer is not a TTY")
	}
}
