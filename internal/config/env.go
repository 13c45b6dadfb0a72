package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables and
// updates source tracking. Unparseable numbers are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("TASKS_FILE"); v != "" {
		cfg.TasksFile = v
		set("tasks_file")
	}
	if v := os.Getenv("TASKS_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("TASKS_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		set("journal")
	}
	if v := os.Getenv("TASKS_LOCK"); v != "" {
		cfg.Lock = boolFromString(v)
		set("lock")
	}
	if v := os.Getenv("TASKS_HOOK"); v != "" {
		cfg.HookCommand = v
		set("hook_command")
	}
	if v := os.Getenv("TASKS_HOOK_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.HookTimeoutSeconds = i
			set("hook_timeout_seconds")
		}
	}

	// Logging configuration
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
