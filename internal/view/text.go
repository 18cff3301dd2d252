package view

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes f as plain text, one task per line with its id so the
// ids can be passed to the toggle and rm commands.
func WriteText(w io.Writer, f Frame) error {
	var b strings.Builder

	tabs := make([]string, 0, len(f.Tabs))
	for _, tab := range f.Tabs {
		if tab.Active {
			tabs = append(tabs, "["+tab.Label+"]")
		} else {
			tabs = append(tabs, " "+tab.Label+" ")
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	if len(f.Rows) == 0 {
		b.WriteString("  " + f.Placeholder + "\n")
	}
	for _, row := range f.Rows {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", Checkbox(row.Completed), row.ID, row.Text))
	}

	b.WriteString("\n" + f.CountLabel + "\n")
	if f.Status != "" {
		b.WriteString(f.Status + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Checkbox renders a completed flag.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
