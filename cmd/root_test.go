// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// setup isolates config discovery and points the tasks file and journal at
// temp dirs. It returns the tasks file path.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"TASKS_JOURNAL", "TASKS_LOCK", "TASKS_HOOK", "TASKS_HOOK_TIMEOUT",
		"TASKS_LOG_LEVEL", "TASKS_LOG_FORMAT", "TASKS_LOG_TIMESTAMPS", "TASKS_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	file := filepath.Join(work, "tasks.json")
	t.Setenv("TASKS_FILE", file)
	t.Setenv("TASKS_LOG_DIR", filepath.Join(home, "logs"))
	return file
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// mustRun runs args and fails the test on a returned error.
func mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := run(t, args...)
	if err != nil {
		t.Fatalf("tasks %s: unexpected error %v (stderr %q)", strings.Join(args, " "), err, stderr)
	}
	return stdout, stderr
}

// TestRun tests help, version, and dispatch errors.
func TestRun(t *testing.T) {
	setup(t)

	for _, args := range [][]string{nil, {"help"}, {"-h"}, {"-help"}, {"--help"}} {
		t.Run("usage "+strings.Join(args, " "), func(t *testing.T) {
			stdout, _ := mustRun(t, args...)
			if !strings.Contains(stdout, "Usage:") || !strings.Contains(stdout, "complete, done <id>") {
				t.Errorf("expected usage, got %q", stdout)
			}
			if !strings.Contains(stdout, "-file") {
				t.Errorf("expected global flags in usage, got %q", stdout)
			}
		})
	}

	for _, args := range [][]string{{"version"}, {"-v"}, {"--version"}} {
		t.Run("version "+strings.Join(args, " "), func(t *testing.T) {
			stdout, _ := mustRun(t, args...)
			if stdout != "tasks version "+Version+"\n" {
				t.Errorf("got %q", stdout)
			}
		})
	}

	t.Run("help config prints example config", func(t *testing.T) {
		stdout, _ := mustRun(t, "help", "config")
		if !strings.Contains(stdout, `tasks_file = "tasks.json"`) {
			t.Errorf("got %q", stdout)
		}
	})

	t.Run("unknown command reports and exits cleanly", func(t *testing.T) {
		stdout, stderr := mustRun(t, "frobnicate")
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		want := "Unknown command: frobnicate\nRun 'tasks help' to see available commands.\n"
		if stderr != want {
			t.Errorf("stderr: got %q, want %q", stderr, want)
		}
	})

	t.Run("bad global flag prints usage", func(t *testing.T) {
		_, stderr := mustRun(t, "-bogus", "list")
		if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, "Usage:") {
			t.Errorf("got %q", stderr)
		}
	})
}

// TestScenario walks the add, complete, clear, delete sequence end to end.
func TestScenario(t *testing.T) {
	file := setup(t)

	steps := []struct {
		args   []string
		stdout string
		stderr string
	}{
		{[]string{"list"}, ui.EmptyListMessage + "\n", ""},
		{[]string{"add", "Buy", "milk"}, "Added task #1: Buy milk\n", ""},
		{[]string{"add", "Walk dog"}, "Added task #2: Walk dog\n", ""},
		{[]string{"complete", "1"}, "Completed task #1: Buy milk\n", ""},
		{[]string{"done", "1"}, "", "Warning: task #1 is already completed\n"},
		{[]string{"ls"}, "Tasks:\n  [x] #1 Buy milk\n  [ ] #2 Walk dog\n\nTotal: 2 | Pending: 1 | Completed: 1\n", ""},
		{[]string{"clear"}, "Removed 1 completed task(s).\n", ""},
		{[]string{"clear"}, "No completed tasks to remove.\n", ""},
		{[]string{"list"}, "Tasks:\n  [ ] #2 Walk dog\n\nTotal: 1 | Pending: 1 | Completed: 0\n", ""},
		{[]string{"remove", "2"}, "Deleted task #2: Walk dog\n", ""},
		{[]string{"list"}, ui.EmptyListMessage + "\n", ""},
	}

	for _, step := range steps {
		stdout, stderr := mustRun(t, step.args...)
		if stdout != step.stdout {
			t.Fatalf("tasks %v stdout:\ngot  %q\nwant %q", step.args, stdout, step.stdout)
		}
		if stderr != step.stderr {
			t.Fatalf("tasks %v stderr:\ngot  %q\nwant %q", step.args, stderr, step.stderr)
		}
	}

	list, err := todo.Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty file, got %+v", list)
	}
}

func TestAddCommand(t *testing.T) {
	t.Run("empty description leaves no file", func(t *testing.T) {
		file := setup(t)
		for _, args := range [][]string{{"add"}, {"add", "   "}} {
			stdout, stderr := mustRun(t, args...)
			if stdout != "" {
				t.Errorf("stdout: got %q", stdout)
			}
			if !strings.Contains(stderr, "Error: task description cannot be empty") {
				t.Errorf("stderr: got %q", stderr)
			}
		}
		if _, err := os.Stat(file); !os.IsNotExist(err) {
			t.Errorf("tasks file should not exist, stat err = %v", err)
		}
	})

	t.Run("flags after the command are text", func(t *testing.T) {
		setup(t)
		stdout, _ := mustRun(t, "add", "-v", "fix", "login")
		if stdout != "Added task #1: -v fix login\n" {
			t.Errorf("got %q", stdout)
		}
	})

	t.Run("global file flag", func(t *testing.T) {
		setup(t)
		other := filepath.Join(t.TempDir(), "other.json")
		mustRun(t, "-file", other, "add", "elsewhere")
		list, err := todo.Load(other)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].Description != "elsewhere" {
			t.Errorf("unexpected list %+v", list)
		}
	})
}

func TestCompleteAndDeleteErrors(t *testing.T) {
	setup(t)
	for i := 0; i < 12; i++ {
		mustRun(t, "add", "task")
	}

	tests := []struct {
		name   string
		args   []string
		stdout string
		stderr string
	}{
		{"complete missing id", []string{"complete"}, "", "Error: please provide a task id\nUsage: tasks complete <id>\n"},
		{"delete missing id", []string{"delete"}, "", "Error: please provide a task id\nUsage: tasks delete <id>\n"},
		{"complete unknown id", []string{"complete", "99"}, "", "Error: task #99 not found\n"},
		{"complete non-numeric", []string{"complete", "abc"}, "", "Error: task #abc not found\n"},
		{"delete unknown id", []string{"delete", "0"}, "", "Error: task #0 not found\n"},
		{"numeric prefix", []string{"complete", "12abc"}, "Completed task #12: task\n", ""},
		{"delete numeric prefix", []string{"delete", "3rd"}, "Deleted task #3: task\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := mustRun(t, tt.args...)
			if stdout != tt.stdout {
				t.Errorf("stdout: got %q, want %q", stdout, tt.stdout)
			}
			if stderr != tt.stderr {
				t.Errorf("stderr: got %q, want %q", stderr, tt.stderr)
			}
		})
	}
}

func TestCompleteOnEmptyList(t *testing.T) {
	file := setup(t)
	_, stderr := mustRun(t, "complete", "99")
	if stderr != "Error: task #99 not found\n" {
		t.Errorf("got %q", stderr)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("tasks file should not be created")
	}
}

func TestMalformedFileFallsBackToEmpty(t *testing.T) {
	file := setup(t)
	if err := os.WriteFile(file, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr := mustRun(t, "list")
	if stdout != ui.EmptyListMessage+"\n" {
		t.Errorf("stdout: got %q", stdout)
	}
	if !strings.Contains(stderr, "could not load tasks") {
		t.Errorf("expected load warning, got %q", stderr)
	}

	stdout, _ = mustRun(t, "add", "fresh start")
	if stdout != "Added task #1: fresh start\n" {
		t.Errorf("got %q", stdout)
	}
}

func TestExportCommand(t *testing.T) {
	setup(t)
	mustRun(t, "add", "Buy milk")
	mustRun(t, "add", "Walk dog")
	mustRun(t, "complete", "2")

	t.Run("json", func(t *testing.T) {
		stdout, _ := mustRun(t, "export")
		var list todo.List
		if err := json.Unmarshal([]byte(stdout), &list); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(list) != 2 || !list[1].Completed {
			t.Errorf("unexpected list %+v", list)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _ := mustRun(t, "export", "-format", "yaml")
		for _, want := range []string{"description: Buy milk", "description: Walk dog", "completed: true"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("missing %q in %s", want, stdout)
			}
		}
	})

	t.Run("toml", func(t *testing.T) {
		stdout, _ := mustRun(t, "export", "-format", "toml")
		for _, want := range []string{"[[tasks]]", `description = "Buy milk"`, `description = "Walk dog"`} {
			if !strings.Contains(stdout, want) {
				t.Errorf("missing %q in %s", want, stdout)
			}
		}
	})

	t.Run("unknown format fails", func(t *testing.T) {
		_, _, err := run(t, "export", "-format", "xml")
		if err == nil || !strings.Contains(err.Error(), "unknown export format") {
			t.Errorf("expected format error, got %v", err)
		}
	})
}

func TestReadOnlyCommandsLeaveNoTrace(t *testing.T) {
	file := setup(t)
	logDir := os.Getenv("TASKS_LOG_DIR")

	mustRun(t, "list")
	mustRun(t, "ls")
	mustRun(t, "export")

	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Errorf("read-only commands must not create the journal, stat err %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(file))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an untouched work dir, got %d entries", len(entries))
	}

	mustRun(t, "add", "Buy milk")
	if _, err := os.Stat(logDir); err != nil {
		t.Errorf("add should create the journal: %v", err)
	}
}

func TestSubcommandHelp(t *testing.T) {
	setup(t)
	for _, command := range []string{"export", "history", "doctor"} {
		for _, flagName := range []string{"-h", "-help"} {
			t.Run(command+" "+flagName, func(t *testing.T) {
				stdout, stderr, err := run(t, command, flagName)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !strings.Contains(stderr, "Usage of tasks "+command) {
					t.Errorf("expected usage on stderr, got %q", stderr)
				}
				if stdout != "" {
					t.Errorf("expected no stdout, got %q", stdout)
				}
			})
		}
	}

	if _, _, err := run(t, "export", "-bogus"); err == nil {
		t.Error("unknown subcommand flag should still fail")
	}
}

func TestHistoryCommand(t *testing.T) {
	t.Run("records applied mutations only", func(t *testing.T) {
		setup(t)
		stdout, _ := mustRun(t, "history")
		if stdout != "No history yet.\n" {
			t.Errorf("got %q", stdout)
		}

		mustRun(t, "add", "Buy milk")
		mustRun(t, "add", "")
		mustRun(t, "complete", "1")
		mustRun(t, "complete", "1")
		mustRun(t, "delete", "7")
		mustRun(t, "clear")

		stdout, _ = mustRun(t, "history")
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 entries, got %d:\n%s", len(lines), stdout)
		}
		for i, want := range []string{"add      #1 Buy milk", "complete #1 Buy milk", "clear    1 completed task(s)"} {
			if !strings.Contains(lines[i], want) {
				t.Errorf("line %d: got %q, want %q", i, lines[i], want)
			}
		}

		stdout, _ = mustRun(t, "history", "-n", "1", "-raw")
		var event todo.Event
		if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &event); err != nil {
			t.Fatalf("raw line is not an event: %v (%q)", err, stdout)
		}
		if event.Op != todo.OpClear || event.Count != 1 || event.ID == "" {
			t.Errorf("unexpected event %+v", event)
		}
	})

	t.Run("journal disabled", func(t *testing.T) {
		setup(t)
		t.Setenv("TASKS_JOURNAL", "false")
		mustRun(t, "add", "quiet")
		stdout, _ := mustRun(t, "history")
		if stdout != "No history yet.\n" {
			t.Errorf("got %q", stdout)
		}
	})
}

func TestDoctorCommand(t *testing.T) {
	t.Run("missing file passes", func(t *testing.T) {
		setup(t)
		stdout, _, err := run(t, "doctor")
		if err != nil {
			t.Fatalf("doctor failed: %v\n%s", err, stdout)
		}
		if !strings.Contains(stdout, "Not found") || !strings.Contains(stdout, "All checks passed") {
			t.Errorf("got %q", stdout)
		}
	})

	t.Run("valid file with verbose sources", func(t *testing.T) {
		setup(t)
		mustRun(t, "add", "Buy milk")
		stdout, _, err := run(t, "doctor", "-v")
		if err != nil {
			t.Fatalf("doctor failed: %v\n%s", err, stdout)
		}
		for _, want := range []string{"✅ Valid", "1 task(s)", "tasks_file", "(environment)", "(default)"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("missing %q in:\n%s", want, stdout)
			}
		}
	})

	t.Run("invalid file fails", func(t *testing.T) {
		file := setup(t)
		content := `[{"id": 1, "description": "a", "completed": true, "createdAt": "2024-01-01T00:00:00Z"}]`
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		stdout, _, err := run(t, "doctor")
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(stdout, "❌ Invalid") || !strings.Contains(stdout, "[0]") {
			t.Errorf("got %q", stdout)
		}
	})

	t.Run("missing hook fails", func(t *testing.T) {
		setup(t)
		t.Setenv("TASKS_HOOK", filepath.Join(t.TempDir(), "no-such-hook"))
		if _, _, err := run(t, "doctor"); err == nil {
			t.Fatal("expected doctor to fail")
		}
	})

	t.Run("non-executable hook fails", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("execute bits are not used on Windows")
		}
		setup(t)
		hook := filepath.Join(t.TempDir(), "hook.sh")
		if err := os.WriteFile(hook, []byte("#!/bin/sh\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("TASKS_HOOK", hook)
		stdout, _, err := run(t, "doctor")
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(stdout, "Not executable") {
			t.Errorf("got %q", stdout)
		}
	})
}

func TestHookCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts require a POSIX shell")
	}
	file := setup(t)
	out := filepath.Join(t.TempDir(), "hook.log")
	script := filepath.Join(t.TempDir(), "hook.sh")
	body := "#!/bin/sh\necho \"$1 $2 $3 $TASKS_DESCRIPTION\" >> \"" + out + "\"\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	stdout, _ := mustRun(t, "-hook", script, "add", "Buy milk")
	if stdout != "Added task #1: Buy milk\n" {
		t.Errorf("hook output must not reach stdout, got %q", stdout)
	}
	mustRun(t, "-hook", script, "add", "")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "add 1 "+file+" Buy milk\n" {
		t.Errorf("got %q", got)
	}
}

func TestHookFailureIsWarning(t *testing.T) {
	setup(t)
	t.Setenv("TASKS_HOOK", filepath.Join(t.TempDir(), "no-such-hook"))

	stdout, stderr := mustRun(t, "add", "Buy milk")
	if stdout != "Added task #1: Buy milk\n" {
		t.Errorf("got %q", stdout)
	}
	if !strings.Contains(stderr, "event recorder failed") {
		t.Errorf("expected warning, got %q", stderr)
	}
}

func TestLockDisabled(t *testing.T) {
	file := setup(t)
	mustRun(t, "-lock=false", "add", "unlocked")
	if _, err := os.Stat(file + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file should not exist, stat err = %v", err)
	}
	mustRun(t, "add", "locked")
	if _, err := os.Stat(file + ".lock"); err != nil {
		t.Errorf("expected lock file: %v", err)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	setup(t)
	_, _, err := run(t, "tui")
	if !errors.Is(err, ui.ErrNotTTY) {
		t.Errorf("expected ErrNotTTY, got %v", err)
	}
}

func TestConfigErrorIsReturned(t *testing.T) {
	setup(t)
	if err := os.WriteFile("tasks.toml", []byte("lock = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Errorf("expected config error, got %v", err)
	}
}
