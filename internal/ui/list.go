package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/todo"
)

// EmptyListMessage is printed by WriteList for an empty list.
const EmptyListMessage = "No tasks yet. Add one with: tasks add <description>"

// Styles holds the lipgloss styles shared by list output and the TUI.
type Styles struct {
	Title   lipgloss.Style
	Done    lipgloss.Style
	Pending lipgloss.Style
	Cursor  lipgloss.Style
	Faint   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles builds styles for r. Renderers attached to non-terminal writers
// produce plain text.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true),
		Done:    r.NewStyle().Foreground(lipgloss.Color("2")),
		Pending: r.NewStyle(),
		Cursor:  r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		Faint:   r.NewStyle().Faint(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// WriteList prints the task list with its summary line:
//
//	Tasks:
//	  [ ] #1 Buy milk
//	  [x] #2 Walk dog
//
//	Total: 2 | Pending: 1 | Completed: 1
func WriteList(w io.Writer, tasks todo.List) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, EmptyListMessage)
		return err
	}

	styles := NewStyles(lipgloss.NewRenderer(w))
	if _, err := fmt.Fprintln(w, "Tasks:"); err != nil {
		return err
	}
	for _, task := range tasks {
		if _, err := fmt.Fprintf(w, "  %s #%d %s\n", marker(styles, task), task.ID, task.Description); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", Summary(tasks.Counts()))
	return err
}

// Summary formats list counts.
func Summary(c todo.Counts) string {
	return fmt.Sprintf("Total: %d | Pending: %d | Completed: %d", c.Total, c.Pending, c.Completed)
}

func marker(styles Styles, task todo.Task) string {
	if task.Completed {
		return styles.Done.Render("[x]")
	}
	return styles.Pending.Render("[ ]")
}
