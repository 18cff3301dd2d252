// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/view"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	altScreen bool
	input     io.Reader
	output    io.Writer
}

// WithAltScreen runs the program in the terminal's alternate screen.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithIO sets the program's input and output. The default is stdin and stdout.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI runs the terminal UI over v until the user quits or ctx is done.
func RunTUI(ctx context.Context, v *view.View, opts ...TUIOption) error {
	c := &tuiConfig{
		altScreen: true,
		input:     os.Stdin,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(c.input),
		tea.WithOutput(c.output),
	}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(NewModel(ctx, v), programOpts...).Run()
	return err
}

// Model is the bubbletea model. Keys become View intents; the screen is
// drawn from the last Frame the View returned.
type Model struct {
	ctx   context.Context
	view  *view.View
	frame view.Frame
	input textinput.Model

	cursor    int
	inputMode bool
	showHelp  bool
	width     int
}

// NewModel returns a Model over v.
func NewModel(ctx context.Context, v *view.View) *Model {
	frame := v.Render()
	ti := textinput.New()
	ti.Placeholder = frame.Prompt
	ti.CharLimit = 256
	ti.Prompt = "> "
	return &Model{
		ctx:   ctx,
		view:  v,
		frame: frame,
		input: ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.submit):
		added, frame := m.view.Submit(m.ctx, m.input.Value())
		if added {
			m.input.Reset()
		}
		m.setFrame(frame)
		return m, nil
	case key.Matches(msg, keys.cancel):
		m.inputMode = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help, quit still quits.
		m.showHelp = false
		if key.Matches(msg, keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.help):
		m.showHelp = true
	case key.Matches(msg, keys.add):
		m.inputMode = true
		return m, m.input.Focus()
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.frame.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.toggle):
		if row, ok := m.selected(); ok {
			m.setFrame(m.view.Toggle(m.ctx, row.ID))
		}
	case key.Matches(msg, keys.del):
		if row, ok := m.selected(); ok {
			m.setFrame(m.view.Delete(m.ctx, row.ID))
		}
	case key.Matches(msg, keys.all):
		m.setFilter(todo.FilterAll)
	case key.Matches(msg, keys.active):
		m.setFilter(todo.FilterActive)
	case key.Matches(msg, keys.completed):
		m.setFilter(todo.FilterCompleted)
	case key.Matches(msg, keys.cycle):
		m.setFilter(m.view.Filter().Next())
	case key.Matches(msg, keys.clear):
		m.setFrame(m.view.ClearCompleted(m.ctx))
	}
	return m, nil
}

func (m *Model) setFilter(f todo.Filter) {
	m.cursor = 0
	m.setFrame(m.view.SetFilter(f))
}

// setFrame replaces the frame and keeps the cursor on a row.
func (m *Model) setFrame(f view.Frame) {
	m.frame = f
	if m.cursor >= len(f.Rows) {
		m.cursor = len(f.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (view.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.frame.Rows) {
		return view.Row{}, false
	}
	return m.frame.Rows[m.cursor], true
}

// Frame returns the frame currently on screen.
func (m *Model) Frame() view.Frame {
	return m.frame
}

// Cursor returns the index of the selected row.
func (m *Model) Cursor() int {
	return m.cursor
}

// InputMode reports whether keys go to the new-task input.
func (m *Model) InputMode() bool {
	return m.inputMode
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b, m.frame.Title)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	b.WriteString(m.input.View() + "\n\n")
	writeTabs(&b, m.frame.Tabs)
	writeRows(&b, m.frame, m.cursor, !m.inputMode)
	writeFooter(&b, m.frame)
	return b.String()
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("205"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"})
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	completedStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	placeholderStyle = lipgloss.NewStyle().Italic(true).Faint(true).PaddingLeft(4)
	deleteStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle        = lipgloss.NewStyle().Faint(true)
)

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)) + "\n\n")
}

func writeTabs(b *strings.Builder, tabs []view.Tab) {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Label)
		if tab.Active {
			parts = append(parts, activeTabStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, tabStyle.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(parts, "  ") + "\n\n")
}

func writeRows(b *strings.Builder, f view.Frame, cursor int, showCursor bool) {
	if len(f.Rows) == 0 {
		b.WriteString(placeholderStyle.Render(f.Placeholder) + "\n\n")
		return
	}
	for i, row := range f.Rows {
		pointer := "  "
		if showCursor && i == cursor {
			pointer = cursorStyle.Render("> ")
		}
		text := row.Text
		if row.Completed {
			text = completedStyle.Render(text)
		}
		line := pointer + view.Checkbox(row.Completed) + " " + text
		if showCursor && i == cursor {
			line += "  " + deleteStyle.Render("(d: "+row.DeleteLabel+")")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, f view.Frame) {
	b.WriteString(f.CountLabel + "\n")
	if f.Status != "" {
		status := f.Status
		if f.StatusError {
			status = errorStyle.Render(status)
		}
		b.WriteString(status + "\n")
	}
	b.WriteString(helpStyle.Render("Press h for help | a to add | q to quit") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	for _, binding := range keys.helpBindings() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
	}
	b.WriteString("\n" + helpStyle.Render("Press any key to return") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
