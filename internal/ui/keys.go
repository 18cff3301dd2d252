package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keymap struct {
	add       key.Binding
	submit    key.Binding
	cancel    key.Binding
	up        key.Binding
	down      key.Binding
	toggle    key.Binding
	del       key.Binding
	all       key.Binding
	active    key.Binding
	completed key.Binding
	cycle     key.Binding
	clear     key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeymap() keymap {
	return keymap{
		add:       key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a, i", "new task")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave input")),
		up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k, up", "move up")),
		down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j, down", "move down")),
		toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space, x", "toggle done")),
		del:       key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d, del", "delete task")),
		all:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "show all")),
		active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "show active")),
		completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "show completed")),
		cycle:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h, ?", "toggle help")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q, ctrl+c", "quit")),
	}
}

// helpBindings returns the bindings listed on the help screen, in order.
func (k keymap) helpBindings() []key.Binding {
	return []key.Binding{
		k.add, k.submit, k.cancel, k.up, k.down, k.toggle, k.del,
		k.all, k.active, k.completed, k.cycle, k.clear, k.help, k.quit,
	}
}

var keys = newKeymap()
