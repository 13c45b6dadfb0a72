package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

// historyCommand shows the most recent journal entries.
func (a *app) historyCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	raw := fs.Bool("raw", false, "Print journal lines as stored")

	if ok, err := parseCommandFlags(fs, args); !ok {
		return err
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.workDir())
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	journalPath := filepath.Join(logDir, logging.JournalFile)

	if _, err := os.Stat(journalPath); os.IsNotExist(err) {
		fmt.Fprintln(a.stdout, "No history yet.")
		return nil
	}

	if *follow || *raw {
		if *follow {
			fmt.Fprintf(a.stderr, "Following: %s (Ctrl+C to stop)\n", journalPath)
		}
		return logging.TailLog(ctx, a.stdout, journalPath, *n, *follow)
	}

	events, err := logging.ReadJournal(journalPath)
	if err != nil {
		return err
	}
	if *n > 0 && len(events) > *n {
		events = events[len(events)-*n:]
	}
	if len(events) == 0 {
		fmt.Fprintln(a.stdout, "No history yet.")
		return nil
	}
	for _, e := range events {
		fmt.Fprintln(a.stdout, formatEvent(e))
	}
	return nil
}

func formatEvent(e todo.Event) string {
	stamp := e.Time.Local().Format(time.DateTime)
	var line string
	switch e.Op {
	case todo.OpClear:
		line = fmt.Sprintf("%s  %-8s %d completed task(s)", stamp, e.Op, e.Count)
	default:
		line = fmt.Sprintf("%s  %-8s #%d %s", stamp, e.Op, e.TaskID, e.Description)
	}
	if !e.Persisted {
		line += " (not saved)"
	}
	return line
}
