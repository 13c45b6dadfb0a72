package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by environment variables or CLI flags

# Tasks file (relative to the current directory)
tasks_file = "tasks.json"

# Journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasks"

# Record each change in <log_dir>/<project>/journal.jsonl
journal = true

# Hold an advisory lock on <tasks_file>.lock during each command
lock = true

# Command to run after each change: <hook> <op> <task-id> <tasks-file>
# hook_command = "/path/to/hook.sh"
hook_timeout_seconds = 10

# Diagnostics on stderr
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
