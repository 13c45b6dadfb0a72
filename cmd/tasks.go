package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// addCommand joins its arguments into one description.
func (a *app) addCommand(ctx context.Context, args []string) error {
	st, closeStore := a.openStore(recording)
	defer closeStore()

	res, err := st.Add(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", todo.ErrEmptyDescription)
		fmt.Fprintln(a.stderr, "Usage: tasks add <description>")
		return nil
	}
	fmt.Fprintf(a.stdout, "Added task #%d: %s\n", res.Task.ID, res.Task.Description)
	return nil
}

func (a *app) listCommand(ctx context.Context) error {
	st, closeStore := a.openStore(readOnly)
	defer closeStore()

	snap := st.List(ctx)
	if err := ui.WriteList(a.stdout, snap.Tasks); err != nil {
		a.logger.Error("could not write list", "err", err)
	}
	return nil
}

func (a *app) completeCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.missingID("complete")
		return nil
	}

	st, closeStore := a.openStore(recording)
	defer closeStore()

	res, err := st.Complete(ctx, args[0])
	switch {
	case errors.Is(err, todo.ErrAlreadyCompleted):
		fmt.Fprintf(a.stderr, "Warning: task #%d is already completed\n", res.Task.ID)
	case err != nil:
		fmt.Fprintf(a.stderr, "Error: task #%s not found\n", args[0])
	default:
		fmt.Fprintf(a.stdout, "Completed task #%d: %s\n", res.Task.ID, res.Task.Description)
	}
	return nil
}

func (a *app) deleteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.missingID("delete")
		return nil
	}

	st, closeStore := a.openStore(recording)
	defer closeStore()

	res, err := st.Delete(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: task #%s not found\n", args[0])
		return nil
	}
	fmt.Fprintf(a.stdout, "Deleted task #%d: %s\n", res.Task.ID, res.Task.Description)
	return nil
}

func (a *app) clearCommand(ctx context.Context) error {
	st, closeStore := a.openStore(recording)
	defer closeStore()

	res, err := st.Clear(ctx)
	if err != nil {
		fmt.Fprintln(a.stdout, "No completed tasks to remove.")
		return nil
	}
	fmt.Fprintf(a.stdout, "Removed %d completed task(s).\n", res.Count)
	return nil
}

func (a *app) missingID(command string) {
	fmt.Fprintln(a.stderr, "Error: please provide a task id")
	fmt.Fprintf(a.stderr, "Usage: tasks %s <id>\n", command)
}

// tuiCommand launches the interactive list.
func (a *app) tuiCommand(ctx context.Context) error {
	st, closeStore := a.openStore(interactive)
	defer closeStore()

	return ui.RunTUI(ctx, st, a.stdout)
}
