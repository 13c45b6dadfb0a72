package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultTasksFile          = "tasks.json"
	DefaultLogDir             = "~/.tasks"
	DefaultJournal            = true
	DefaultLock               = true
	DefaultHookTimeoutSeconds = 10
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Paths
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Storage
	Journal bool `toml:"journal"`
	Lock    bool `toml:"lock"`

	// Hooks
	HookCommand        string `toml:"hook_command"`
	HookTimeoutSeconds int    `toml:"hook_timeout_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}
