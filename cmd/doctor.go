package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/utils"
)

// doctorCommand checks config, the tasks file, the journal, and the hook.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if ok, err := parseCommandFlags(fs, args); !ok {
		return err
	}

	w := a.stdout
	cfg := a.cfg

	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  ✅ Config file: %s\n", file)
	} else {
		fmt.Fprintln(w, "  ✅ Config file: none (defaults; see 'tasks help config')")
	}
	if *verbose {
		for _, field := range config.Fields() {
			fmt.Fprintf(w, "     %-22s %v (%s)\n", field, cfg.Value(field), a.cws.Sources[field])
		}
	}
	fmt.Fprintln(w)

	// Tasks file
	fmt.Fprintf(w, "Tasks file: %s\n", cfg.TasksFile)
	data, err := os.ReadFile(cfg.TasksFile)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (created on first add)")
		if _, statErr := os.Stat(filepath.Dir(cfg.TasksFile)); statErr != nil {
			fmt.Fprintf(w, "  ❌ Directory: %v\n", statErr)
			allOK = false
		}
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		result := todo.Validate(data)
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
			if *verbose {
				if list, err := todo.Parse(data); err == nil {
					c := list.Counts()
					fmt.Fprintf(w, "     %d task(s): %d pending, %d completed\n", c.Total, c.Pending, c.Completed)
				}
			}
		} else {
			fmt.Fprintln(w, "  ❌ Invalid (commands will treat it as an empty list and overwrite it)")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     %s\n", e.Error())
			}
			allOK = false
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
	}
	if cfg.Lock {
		fmt.Fprintf(w, "  ✅ Locking: %s\n", cfg.TasksFile+".lock")
	} else {
		fmt.Fprintln(w, "  ⚠️  Locking disabled (concurrent writers may overwrite each other)")
	}
	fmt.Fprintln(w)

	// Journal
	fmt.Fprintln(w, "Journal:")
	if !cfg.Journal {
		fmt.Fprintln(w, "  ⚠️  Disabled")
	} else if logDir, err := logging.FindLogDir(cfg.LogDir, a.workDir()); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ %s\n", filepath.Join(logDir, logging.JournalFile))
	}
	fmt.Fprintln(w)

	// Hook
	if cfg.HookCommand != "" {
		fmt.Fprintln(w, "Hook:")
		if !checkHook(w, cfg.HookCommand) {
			allOK = false
		}
		fmt.Fprintf(w, "  Timeout: %s\n", cfg.HookTimeout())
		fmt.Fprintln(w)
	}

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkHook reports whether the hook command can be run.
func checkHook(w io.Writer, command string) bool {
	fmt.Fprintf(w, "  Command: %s\n", command)
	if info, err := os.Stat(command); err == nil {
		if !utils.IsExecutable(command, info) {
			fmt.Fprintln(w, "  ❌ Not executable")
			return false
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(command)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Not found: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}
