package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nibzard/todo-go/internal/todo"
)

// Locale names.
const (
	LocaleEnglish  = "en"
	LocaleJapanese = "ja"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = LocaleEnglish

// Messages holds the user-facing strings of a Frame.
type Messages struct {
	Title       string
	Prompt      string
	NoTasks     string
	NoCompleted string
	Delete      string
	SaveFailed  string
	LoadFailed  string
	Filters     map[todo.Filter]string

	// CountLabel formats the active task count.
	CountLabel func(n int) string
}

var locales = map[string]Messages{
	LocaleEnglish: {
		Title:       "Todo",
		Prompt:      "What needs to be done?",
		NoTasks:     "No tasks",
		NoCompleted: "No completed tasks",
		Delete:      "delete",
		SaveFailed:  "Could not save tasks",
		LoadFailed:  "Stored tasks were unreadable and were set aside",
		Filters: map[todo.Filter]string{
			todo.FilterAll:       "All",
			todo.FilterActive:    "Active",
			todo.FilterCompleted: "Completed",
		},
		CountLabel: func(n int) string {
			if n == 1 {
				return "1 task"
			}
			return fmt.Sprintf("%d tasks", n)
		},
	},
	LocaleJapanese: {
		Title:       "Todo リスト",
		Prompt:      "新しいタスクを入力...",
		NoTasks:     "タスクがありません",
		NoCompleted: "完了したタスクはありません",
		Delete:      "削除",
		SaveFailed:  "タスクを保存できませんでした",
		LoadFailed:  "保存されたタスクを読み込めなかったため退避しました",
		Filters: map[todo.Filter]string{
			todo.FilterAll:       "すべて",
			todo.FilterActive:    "未完了",
			todo.FilterCompleted: "完了済み",
		},
		CountLabel: func(n int) string {
			return fmt.Sprintf("%d 個のタスク", n)
		},
	},
}

// Locales returns the supported locale names, sorted.
func Locales() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MessagesFor returns the message table for locale. The empty string selects
// DefaultLocale.
func MessagesFor(locale string) (Messages, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}
	msgs, ok := locales[locale]
	if !ok {
		return Messages{}, fmt.Errorf("unknown locale %q, must be one of: %s", locale, strings.Join(Locales(), ", "))
	}
	return msgs, nil
}

// withDefaults fills empty fields of m from the default locale.
func (m Messages) withDefaults() Messages {
	def := locales[DefaultLocale]
	fill := func(field *string, fallback string) {
		if *field == "" {
			*field = fallback
		}
	}
	fill(&m.Title, def.Title)
	fill(&m.Prompt, def.Prompt)
	fill(&m.NoTasks, def.NoTasks)
	fill(&m.NoCompleted, def.NoCompleted)
	fill(&m.Delete, def.Delete)
	fill(&m.SaveFailed, def.SaveFailed)
	fill(&m.LoadFailed, def.LoadFailed)

	filters := make(map[todo.Filter]string, len(def.Filters))
	for f, label := range def.Filters {
		filters[f] = label
	}
	for f, label := range m.Filters {
		if label != "" {
			filters[f] = label
		}
	}
	m.Filters = filters

	if m.CountLabel == nil {
		m.CountLabel = def.CountLabel
	}
	return m
}
