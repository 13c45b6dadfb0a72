package config

import (
	"flag"
)

// FlagError reports a global flag that could not be parsed.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return "parsing flags: " + e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// flagFields maps global flag names to config keys.
var flagFields = map[string]string{
	"file":       "tasks_file",
	"log-dir":    "log_dir",
	"journal":    "journal",
	"lock":       "lock",
	"hook":       "hook_command",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// parseFlags defines the global flags on fs, parses args, and records a
// flag source for every flag set explicitly. Parsing stops at the first
// non-flag argument, which is left in fs.Args().
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TasksFile, "file", cfg.TasksFile, "Path to tasks file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record mutations in the journal")
	fs.BoolVar(&cfg.Lock, "lock", cfg.Lock, "Lock the tasks file during each operation")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after each change")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")

	if err := fs.Parse(args); err != nil {
		return &FlagError{Err: err}
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
