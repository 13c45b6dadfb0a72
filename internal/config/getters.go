package config

import "time"

// HookTimeout returns the hook timeout as a duration.
func (c *Config) HookTimeout() time.Duration {
	if c.HookTimeoutSeconds <= 0 {
		return time.Duration(DefaultHookTimeoutSeconds) * time.Second
	}
	return time.Duration(c.HookTimeoutSeconds) * time.Second
}

// Value returns the display value of a config key.
func (c *Config) Value(field string) any {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "log_dir":
		return c.LogDir
	case "journal":
		return c.Journal
	case "lock":
		return c.Lock
	case "hook_command":
		return c.HookCommand
	case "hook_timeout_seconds":
		return c.HookTimeoutSeconds
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return c.LogTimestamps
	case "log_caller":
		return c.LogCaller
	default:
		return nil
	}
}
