package todo

import "time"

// Op names a mutating operation.
type Op string

const (
	OpAdd      Op = "add"
	OpComplete Op = "complete"
	OpDelete   Op = "delete"
	OpClear    Op = "clear"
)

// Event describes one mutation that was applied to the list.
type Event struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Op          Op        `json:"op"`
	TaskID      int       `json:"task_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Count       int       `json:"count,omitempty"`
	File        string    `json:"file"`
	Persisted   bool      `json:"persisted"`
}
