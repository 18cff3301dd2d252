// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/todo"
)

// setup isolates the test from real config files and returns an empty data dir.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TODO_DATA_DIR", "TODO_STORAGE", "TODO_STORAGE_KEY", "TODO_LOCALE",
		"TODO_DEFAULT_FILTER", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_LOG_FILE",
	} {
		t.Setenv(name, "")
	}
	chdir(t, t.TempDir())
	return filepath.Join(t.TempDir(), "data")
}

// run calls Run with -data-dir set and returns what it wrote to stdout and stderr.
func run(t *testing.T, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()

	err := Run(context.Background(), append([]string{"-data-dir", dataDir}, args...))
	return out.String(), errOut.String(), err
}

func storedTasks(t *testing.T, dataDir string) []todo.Task {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dataDir, "todos.json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading slot: %v", err)
	}
	tasks, err := todo.Decode(data)
	if err != nil {
		t.Fatalf("decoding slot: %v", err)
	}
	return tasks
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		t.Run("help "+args[0], func(t *testing.T) {
			dir := setup(t)
			out, _, err := run(t, dir, args...)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, "Commands:") || !strings.Contains(out, "-data-dir") {
				t.Errorf("usage missing sections:\n%s", out)
			}
		})
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		t.Run("version "+args[0], func(t *testing.T) {
			dir := setup(t)
			out, _, err := run(t, dir, args...)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out != "todo version dev\n" {
				t.Errorf("got %q", out)
			}
		})
	}

	t.Run("unknown command returns error", func(t *testing.T) {
		dir := setup(t)
		_, errOut, err := run(t, dir, "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(errOut, "Unknown command: unknown-command") {
			t.Errorf("stderr: %q", errOut)
		}
	})

	t.Run("tui requires a terminal", func(t *testing.T) {
		dir := setup(t)
		_, _, err := run(t, dir)
		if err == nil || !strings.Contains(err.Error(), "TTY") {
			t.Errorf("expected TTY error, got %v", err)
		}
	})
}

func TestTaskCommands(t *testing.T) {
	dir := setup(t)

	out, _, err := run(t, dir, "add", "Buy", "milk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "[ ]") || !strings.Contains(out, "Buy milk") || !strings.Contains(out, "1 task") {
		t.Errorf("add output:\n%s", out)
	}
	if _, _, err := run(t, dir, "add", "Walk dog"); err != nil {
		t.Fatalf("add: %v", err)
	}

	tasks := storedTasks(t, dir)
	if len(tasks) != 2 || tasks[0].Text != "Buy milk" || tasks[1].Text != "Walk dog" {
		t.Fatalf("stored: %+v", tasks)
	}

	out, _, err = run(t, dir, "toggle", tasks[0].ID.String())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(out, "[x]") {
		t.Errorf("toggle output:\n%s", out)
	}

	out, _, _ = run(t, dir, "count")
	if out != "1\n" {
		t.Errorf("count: got %q, want 1", out)
	}

	out, _, err = run(t, dir, "ls", "completed")
	if err != nil {
		t.Fatalf("ls completed: %v", err)
	}
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Walk dog") {
		t.Errorf("ls completed:\n%s", out)
	}
	if !strings.Contains(out, "[Completed]") {
		t.Errorf("completed tab not active:\n%s", out)
	}

	out, _, _ = run(t, dir, "ls", "active")
	if strings.Contains(out, "Buy milk") || !strings.Contains(out, "Walk dog") {
		t.Errorf("ls active:\n%s", out)
	}

	if _, _, err := run(t, dir, "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if tasks := storedTasks(t, dir); len(tasks) != 1 || tasks[0].Text != "Walk dog" {
		t.Errorf("after clear: %+v", tasks)
	}

	id := storedTasks(t, dir)[0].ID.String()
	out, _, err = run(t, dir, "rm", id)
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out, "No tasks") || !strings.Contains(out, "0 tasks") {
		t.Errorf("rm output:\n%s", out)
	}
}

func TestAddBlankIsNoOp(t *testing.T) {
	dir := setup(t)
	_, errOut, err := run(t, dir, "add", "   ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(errOut, "empty") {
		t.Errorf("expected a warning, got %q", errOut)
	}
	if tasks := storedTasks(t, dir); len(tasks) != 0 {
		t.Errorf("blank add stored %+v", tasks)
	}
}

func TestUnknownIDWarns(t *testing.T) {
	dir := setup(t)
	_, errOut, err := run(t, dir, "toggle", "42")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(errOut, "No task with id") {
		t.Errorf("stderr: %q", errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "todos.json")); !os.IsNotExist(err) {
		t.Error("toggling an unknown id should not write the slot")
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"toggle without id", []string{"toggle"}, "usage"},
		{"rm with two ids", []string{"rm", "1", "2"}, "usage"},
		{"toggle bad id", []string{"toggle", "abc"}, "invalid"},
		{"ls bad filter", []string{"ls", "done"}, "filter"},
		{"clear with args", []string{"clear", "x"}, "unexpected"},
		{"bad storage", []string{"-storage", "redis", "ls"}, "invalid config"},
		{"bad locale", []string{"-locale", "fr", "count"}, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setup(t)
			_, _, err := run(t, dir, tt.args...)
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLocaleFlag(t *testing.T) {
	dir := setup(t)
	out, _, err := run(t, dir, "-locale", "ja", "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "タスクがありません") || !strings.Contains(out, "0 個のタスク") {
		t.Errorf("japanese output:\n%s", out)
	}
}

func TestSQLiteStorage(t *testing.T) {
	dir := setup(t)
	if _, _, err := run(t, dir, "-storage", "sqlite", "add", "Buy milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := run(t, dir, "-storage", "sqlite", "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if out != "1\n" {
		t.Errorf("count: got %q, want 1", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "todo.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestMalformedSlotIsSetAside(t *testing.T) {
	dir := setup(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, dir, "doctor")
	if err == nil {
		t.Error("doctor should fail on a malformed slot")
	}
	if !strings.Contains(out, "❌") {
		t.Errorf("doctor output:\n%s", out)
	}

	out, _, err = run(t, dir, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "No tasks") || !strings.Contains(out, "unreadable") {
		t.Errorf("ls output:\n%s", out)
	}
	backup, err := os.ReadFile(filepath.Join(dir, "todos.corrupt.json"))
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if string(backup) != "{not json" {
		t.Errorf("backup: got %q", backup)
	}
}

func TestDoctor(t *testing.T) {
	dir := setup(t)
	out, _, err := run(t, dir, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	for _, want := range []string{"Todo Doctor", "not created yet", "is empty", "All checks passed"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, dir, "-storage", "redis", "doctor")
	if err == nil || !strings.Contains(out, "❌") {
		t.Errorf("doctor with bad storage: err=%v\n%s", err, out)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := setup(t)
	t.Setenv("TODO_LOCALE", "ja")
	out, _, err := run(t, dir, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"no config file found", "data_dir", "# flag", "locale", `"ja"`, "# environment", "# default"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := setup(t)
	out, _, err := run(t, dir, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "todo.toml") {
		t.Errorf("init output: %q", out)
	}
	data, err := os.ReadFile("todo.toml")
	if err != nil {
		t.Fatalf("reading todo.toml: %v", err)
	}
	if !strings.Contains(string(data), "storage_key") {
		t.Errorf("example config:\n%s", data)
	}

	if _, _, err := run(t, dir, "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init: expected already exists, got %v", err)
	}
	if _, _, err := run(t, dir, "init", "-force"); err != nil {
		t.Errorf("init -force: %v", err)
	}

	// The written file is picked up as the project config.
	out, _, _ = run(t, dir, "config")
	if !strings.Contains(out, "config file:") {
		t.Errorf("config did not find todo.toml:\n%s", out)
	}
}

func TestLogCommand(t *testing.T) {
	dir := setup(t)
	out, _, err := run(t, dir, "log")
	if err != nil || out != "" {
		t.Fatalf("log without file: out=%q err=%v", out, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "todo.log"), []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err = run(t, dir, "log", "-n", "2")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "two\nthree\n" {
		t.Errorf("log -n 2: got %q", out)
	}
}

func TestMemoryStorageDoesNotPersist(t *testing.T) {
	dir := setup(t)
	if _, _, err := run(t, dir, "-storage", kv.BackendMemory, "add", "Buy milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, _ := run(t, dir, "-storage", kv.BackendMemory, "count")
	if out != "0\n" {
		t.Errorf("count: got %q, want 0", out)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
