package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = "tasks.toml"

// projectConfigNames are tried in the current directory, in order.
var projectConfigNames = []string{configFileName, "." + configFileName}

// userConfigCandidates lists user-level config paths, highest priority
// first: ~/.tasks/tasks.toml, then tasks/tasks.toml under the OS config
// directory.
func userConfigCandidates() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tasks", configFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "tasks", configFileName))
	}
	return paths
}

func findUserConfigFile() string {
	return firstFile(userConfigCandidates())
}

func findProjectConfigFile() string {
	return firstFile(projectConfigNames)
}

// firstFile returns the first path naming a regular file, or "".
func firstFile(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// resolvePaths expands tasks_file and log_dir, fills WorkDir, and anchors
// the tasks file at it. log_dir may stay relative; the journal resolves it
// against the tasks file's directory.
func resolvePaths(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.TasksFile = expandPath(cfg.TasksFile)
	if cfg.TasksFile == "" {
		cfg.TasksFile = DefaultTasksFile
	}

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}
	if !filepath.IsAbs(cfg.TasksFile) {
		cfg.TasksFile = filepath.Join(cfg.WorkDir, cfg.TasksFile)
	}
	return nil
}

// expandPath substitutes $VAR and ${VAR} (unset variables become empty)
// and then a leading ~ for the home directory. ~user is left alone.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// GetConfigFile returns the config file with the highest priority that was
// read, or an empty string when none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
