// Package hooks invokes an external command after each applied mutation.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

// DefaultTimeout bounds a hook run when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Options configures a hook invocation.
type Options struct {
	Command string
	Event   todo.Event
	Timeout time.Duration
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as
//
//	<command> <op> <task-id> <tasks-file>
//
// with the event also exported through TASKS_* environment variables.
// Clear events carry "-" as the task id.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Event.Op == "" {
		return Result{}, fmt.Errorf("hook event has no op")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	taskID := taskIDArg(opts.Event)
	cmd := exec.CommandContext(ctx, opts.Command, string(opts.Event.Op), taskID, opts.Event.File)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(), eventEnv(opts.Event, taskID)...)
	cmd.Stdout = writerOr(opts.Stdout, os.Stderr)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("hook command timed out after %s: %w", timeout, err)
		}
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

// Runner invokes the same hook for every recorded event.
type Runner struct {
	Command string
	Timeout time.Duration
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRunner returns a Runner, or nil when command is empty.
func NewRunner(command string, timeout time.Duration) *Runner {
	if command == "" {
		return nil
	}
	return &Runner{Command: command, Timeout: timeout}
}

// Record runs the hook for event.
func (r *Runner) Record(ctx context.Context, event todo.Event) error {
	if r == nil {
		return nil
	}
	_, err := Invoke(ctx, Options{
		Command: r.Command,
		Event:   event,
		Timeout: r.Timeout,
		WorkDir: r.WorkDir,
		Stdout:  r.Stdout,
		Stderr:  r.Stderr,
	})
	return err
}

func taskIDArg(event todo.Event) string {
	if event.TaskID == 0 {
		return "-"
	}
	return strconv.Itoa(event.TaskID)
}

func eventEnv(event todo.Event, taskID string) []string {
	return []string{
		"TASKS_EVENT=" + string(event.Op),
		"TASKS_TASK_ID=" + taskID,
		"TASKS_DESCRIPTION=" + event.Description,
		"TASKS_COUNT=" + strconv.Itoa(event.Count),
		"TASKS_FILE=" + event.File,
	}
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
