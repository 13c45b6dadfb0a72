// Package todo models the task list and reads, writes, and validates the
// backing file.
package todo

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyDescription is returned when a task description is empty or
	// whitespace-only.
	ErrEmptyDescription = errors.New("task description cannot be empty")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadyCompleted is returned when completing a task twice.
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrNothingToClear is returned by ClearCompleted callers when no task is
	// completed.
	ErrNothingToClear = errors.New("no completed tasks")
)

// Task represents a single entry in the task list.
type Task struct {
	ID          int        `json:"id" yaml:"id" toml:"id"`
	Description string     `json:"description" yaml:"description" toml:"description"`
	Completed   bool       `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// List is the ordered task list. Order is insertion order and is never
// re-sorted.
type List []Task

// Counts summarizes a list.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// NextID returns max(ids)+1, or 1 for an empty list.
func (l List) NextID() int {
	maxID := 0
	for _, t := range l {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Find returns a pointer to the task with the given id, or nil.
func (l List) Find(id int) *Task {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// Add appends a new pending task and returns it. The description is trimmed
// and must not be empty.
func (l *List) Add(description string, now time.Time) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	task := Task{
		ID:          l.NextID(),
		Description: description,
		CreatedAt:   now.UTC(),
	}
	*l = append(*l, task)
	return task, nil
}

// Complete marks a task as completed and stamps CompletedAt.
// Completion is one-way; a second call returns ErrAlreadyCompleted and
// leaves the task untouched.
func (l List) Complete(id int, now time.Time) (Task, error) {
	task := l.Find(id)
	if task == nil {
		return Task{}, ErrNotFound
	}
	if task.Completed {
		return *task, ErrAlreadyCompleted
	}
	stamp := now.UTC()
	task.Completed = true
	task.CompletedAt = &stamp
	return *task, nil
}

// Remove deletes the task with the given id and returns it.
func (l *List) Remove(id int) (Task, error) {
	for i := range *l {
		if (*l)[i].ID == id {
			removed := (*l)[i]
			*l = append((*l)[:i], (*l)[i+1:]...)
			return removed, nil
		}
	}
	return Task{}, ErrNotFound
}

// ClearCompleted removes every completed task, wherever it sits in the
// list, and returns the removed tasks in their original order.
func (l *List) ClearCompleted() List {
	var removed List
	kept := (*l)[:0]
	for _, t := range *l {
		if t.Completed {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	*l = kept
	return removed
}

// Counts returns total, pending, and completed counts.
func (l List) Counts() Counts {
	c := Counts{Total: len(l)}
	for _, t := range l {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, t := range l {
		if t.CompletedAt != nil {
			stamp := *t.CompletedAt
			t.CompletedAt = &stamp
		}
		out[i] = t
	}
	return out
}

// ParseID converts user-supplied id text the way an integer-prefix parser
// does: leading whitespace is skipped, an optional sign is accepted, and the
// leading run of decimal digits is used ("12abc" is 12). ok is false when no
// digits lead the text; such input never matches a task.
func ParseID(text string) (id int, ok bool) {
	s := strings.TrimLeft(text, " \t\n\r\v\f")
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		// Out of int range: no task can carry that id.
		return 0, false
	}
	return n, true
}
