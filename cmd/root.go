// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/statedir"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
	"github.com/nibzard/todo-go/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "count":
		return countCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "log":
		return logCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is an opened store and the view over it.
type session struct {
	storage kv.Storage
	store   *todo.Store
	view    *view.View
	logger  *log.Logger
}

// openSession validates cfg, opens the configured storage and loads the store.
func openSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	msgs, err := view.MessagesFor(cfg.Locale)
	if err != nil {
		return nil, err
	}

	storage, err := kv.Open(ctx, cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	store, err := todo.Open(ctx, storage,
		todo.WithKey(cfg.StorageKey),
		todo.WithLogger(logger),
	)
	if err != nil {
		storage.Close()
		return nil, err
	}
	logger.Debug("Store opened", "location", kv.Location(cfg.Storage, cfg.DataDir, cfg.StorageKey), "tasks", store.Len())

	v := view.New(store,
		view.WithFilter(cfg.Filter()),
		view.WithMessages(msgs),
		view.WithLogger(logger),
	)
	return &session{storage: storage, store: store, view: v, logger: logger}, nil
}

func (s *session) Close() error {
	return s.storage.Close()
}

// cliLogger returns the logger CLI commands write to stderr with.
func cliLogger(cfg *config.Config) *log.Logger {
	logger, err := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return logging.New(stderr, logging.DefaultOptions())
	}
	return logger
}

// tuiCommand launches the TUI. Logs go to a file while it owns the terminal.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inline := fs.Bool("inline", false, "Draw inline instead of using the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use 'todo ls' for plain output")
	}

	logFile, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger, err := logging.NewFromConfig(logFile.Writer(), cfg.LogLevel, cfg.LogFormat, true, cfg.LogCaller)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("TUI started", "data_dir", cfg.DataDir, "storage", cfg.Storage)
	return ui.RunTUI(ctx, s.view, ui.WithAltScreen(!*inline))
}

// lsCommand prints the rendered list, optionally with a filter.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	frame := s.view.Render()
	if len(args) == 1 {
		f, err := todo.ParseFilter(args[0])
		if err != nil {
			return err
		}
		frame = s.view.SetFilter(f)
	}
	return view.WriteText(stdout, frame)
}

// addCommand adds a task from the remaining arguments joined by spaces.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	added, frame := s.view.Submit(ctx, strings.Join(args, " "))
	if !added {
		s.logger.Warn("Nothing to add, task text is empty")
	}
	return finish(frame)
}

func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := idArg("toggle", args)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	if s.store.Get(id) == nil {
		s.logger.Warn("No task with id", "id", id)
	}
	return finish(s.view.Toggle(ctx, id))
}

func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := idArg("rm", args)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	if s.store.Get(id) == nil {
		s.logger.Warn("No task with id", "id", id)
	}
	return finish(s.view.Delete(ctx, id))
}

func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	return finish(s.view.ClearCompleted(ctx))
}

// countCommand prints the number of active tasks.
func countCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(stdout, s.store.ActiveCount())
	return nil
}

// finish prints frame and turns a failed save into the command's error.
func finish(frame view.Frame) error {
	if err := view.WriteText(stdout, frame); err != nil {
		return err
	}
	if frame.StatusError {
		return errors.New(frame.Status)
	}
	return nil
}

func idArg(command string, args []string) (todo.ID, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: todo %s <id>", command)
	}
	return todo.ParseID(args[0])
}

// doctorCommand checks config, data directory, storage and the stored slot.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	fmt.Fprintln(stdout, "Todo Doctor")
	fmt.Fprintln(stdout, "===========")
	fmt.Fprintln(stdout)

	allOK := true
	check := func(ok bool, format string, a ...any) {
		mark := "✅"
		if !ok {
			mark = "❌"
			allOK = false
		}
		fmt.Fprintf(stdout, "  %s %s\n", mark, fmt.Sprintf(format, a...))
	}

	fmt.Fprintln(stdout, "Config:")
	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			check(false, "%s", line)
		}
	} else {
		check(true, "storage=%s key=%s locale=%s filter=%s", cfg.Storage, cfg.StorageKey, cfg.Locale, cfg.DefaultFilter)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err == nil {
		check(info.IsDir(), "exists")
	} else if os.IsNotExist(err) {
		fmt.Fprintln(stdout, "  ✅ not created yet (created on first save)")
	} else {
		check(false, "%v", err)
	}
	fmt.Fprintln(stdout)

	if !allOK {
		fmt.Fprintln(stdout, "⚠️  Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}

	fmt.Fprintf(stdout, "Storage: %s\n", kv.Location(cfg.Storage, cfg.DataDir, cfg.StorageKey))
	storage, err := kv.Open(ctx, cfg.Storage, cfg.DataDir)
	if err != nil {
		check(false, "open: %v", err)
	} else {
		defer storage.Close()
		check(true, "opened")
		checkSlot(ctx, storage, cfg.StorageKey, check)
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func checkSlot(ctx context.Context, storage kv.Storage, key string, check func(bool, string, ...any)) {
	data, ok, err := storage.Get(ctx, key)
	switch {
	case err != nil:
		check(false, "read slot %q: %v", key, err)
	case !ok:
		check(true, "slot %q is empty", key)
	default:
		tasks, err := todo.Decode(data)
		if err != nil {
			check(false, "slot %q: %v", key, err)
		} else {
			check(true, "slot %q holds %d tasks", key, len(tasks))
		}
	}

	backup := statedir.CorruptKey(key)
	if _, ok, err := storage.Get(ctx, backup); err == nil && ok {
		fmt.Fprintf(stdout, "  ⚠️  a malformed list was set aside under %q\n", backup)
	}
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "# config file: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "# no config file found")
	}
	for _, field := range cws.Fields() {
		fmt.Fprintf(stdout, "%-15s = %-30q # %s\n", field, cws.Value(field), cws.Sources[field])
	}
	return nil
}

// initCommand writes an example config file to the working directory.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := statedir.ConfigPath(cfg.ProjectRoot)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

// logCommand prints the end of the TUI log file.
func logCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo log", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 50, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return logging.TailLog(stdout, cfg.LogPath(), *n)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a terminal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  ls [filter]         List tasks (all, active, completed)")
	fmt.Fprintln(w, "  add <text...>       Add a task")
	fmt.Fprintln(w, "  toggle <id>         Mark a task done or not done")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  clear               Delete all completed tasks")
	fmt.Fprintln(w, "  count               Print the number of active tasks")
	fmt.Fprintln(w, "  doctor              Check config, storage and stored tasks")
	fmt.Fprintln(w, "  config              Show effective config and value sources")
	fmt.Fprintln(w, "  init [-force]       Write an example todo.toml here")
	fmt.Fprintln(w, "  log [-n N]          Show the end of the TUI log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment variables %s* override config files; flags override both.\n", config.EnvPrefix)
}
