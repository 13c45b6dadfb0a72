// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/hooks"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	fs     *flag.FlagSet
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the tasks CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute executes the tasks CLI. Every documented command path returns
// nil; an error means the configuration could not be loaded or an
// extended command (doctor, export, tui) failed.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		var flagErr *config.FlagError
		if errors.As(err, &flagErr) {
			fmt.Fprintf(stderr, "Error: %v\n", flagErr.Err)
			printUsage(fs, stderr)
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}

	a := &app{
		cfg:    cws.Config,
		cws:    cws,
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
	}
	a.logger = logging.NewConsoleLoggerFromConfig(stderr, a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Everything after the command word is positional.
	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	command, rest := remaining[0], remaining[1:]

	switch command {
	case "add":
		return a.addCommand(ctx, rest)
	case "list", "ls":
		return a.listCommand(ctx)
	case "complete", "done":
		return a.completeCommand(ctx, rest)
	case "delete", "remove":
		return a.deleteCommand(ctx, rest)
	case "clear":
		return a.clearCommand(ctx)
	case "export":
		return a.exportCommand(ctx, rest)
	case "history":
		return a.historyCommand(ctx, rest)
	case "doctor":
		return a.doctorCommand(rest)
	case "tui":
		return a.tuiCommand(ctx)
	case "version":
		return a.versionCommand()
	case "help":
		if len(rest) > 0 && rest[0] == "config" {
			fmt.Fprint(stdout, config.ExampleConfig())
			return nil
		}
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		fmt.Fprintln(stderr, "Run 'tasks help' to see available commands.")
		return nil
	}
}

// storeMode selects what openStore wires around the store.
type storeMode int

const (
	// readOnly commands get no journal and no hook.
	readOnly storeMode = iota
	// recording commands journal mutations and run the hook.
	recording
	// interactive is recording with diagnostics and hook output silenced,
	// since the TUI owns the terminal.
	interactive
)

// openStore builds the store for mode. The returned function releases the
// journal.
func (a *app) openStore(mode storeMode) (*store.Store, func()) {
	if mode == readOnly {
		st := store.New(store.Options{Path: a.cfg.TasksFile, Logger: a.logger, Lock: a.cfg.Lock})
		return st, func() {}
	}

	logger := a.logger
	hookOutput := a.stderr
	if mode == interactive {
		logger = logging.NewDiscardLogger()
		hookOutput = io.Discard
	}

	var recorders []store.Recorder
	closeFn := func() {}

	if a.cfg.Journal {
		journal, err := logging.OpenJournal(a.cfg.LogDir, a.workDir())
		if err != nil {
			a.logger.Warn("journal disabled", "err", err)
		} else {
			recorders = append(recorders, journal)
			closeFn = func() {
				if err := journal.Close(); err != nil {
					a.logger.Warn("could not close journal", "err", err)
				}
			}
		}
	}

	if runner := hooks.NewRunner(a.cfg.HookCommand, a.cfg.HookTimeout()); runner != nil {
		runner.WorkDir = a.workDir()
		runner.Stdout = hookOutput
		runner.Stderr = hookOutput
		recorders = append(recorders, runner)
	}

	st := store.New(store.Options{
		Path:      a.cfg.TasksFile,
		Logger:    logger,
		Lock:      a.cfg.Lock,
		Recorders: recorders,
	})
	return st, closeFn
}

// workDir is the directory holding the tasks file. It names the project
// for the journal.
func (a *app) workDir() string {
	return filepath.Dir(a.cfg.TasksFile)
}

// parseCommandFlags parses a subcommand's flags. ok is false when the
// command should stop; -h and -help print usage and stop without an error.
func parseCommandFlags(fs *flag.FlagSet, args []string) (ok bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - a simple task list for the command line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [global options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>     Add a new task")
	fmt.Fprintln(w, "  list, ls              List all tasks")
	fmt.Fprintln(w, "  complete, done <id>   Mark a task as completed")
	fmt.Fprintln(w, "  delete, remove <id>   Delete a task")
	fmt.Fprintln(w, "  clear                 Remove all completed tasks")
	fmt.Fprintln(w, "  export [-format f]    Print tasks as json, yaml, or toml")
	fmt.Fprintln(w, "  history [-n N] [-f]   Show recent changes from the journal")
	fmt.Fprintln(w, "  doctor [-v]           Check config and tasks file validity")
	fmt.Fprintln(w, "  tui                   Interactive task list")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help [config]         Show this help message or an example config")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, `  tasks add "Buy milk"`)
	fmt.Fprintln(w, "  tasks list")
	fmt.Fprintln(w, "  tasks complete 1")
	fmt.Fprintln(w, "  tasks delete 1")
	fmt.Fprintln(w, "  tasks clear")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options (before the command):")
	var b strings.Builder
	fs.SetOutput(&b)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	fmt.Fprint(w, b.String())
}
