// Package store owns the task list for one invocation. Every operation runs
// the cycle lock, load, mutate, save, unlock against the backing file.
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

const (
	lockSuffix     = ".lock"
	lockRetryDelay = 50 * time.Millisecond
	lockTimeout    = 5 * time.Second
)

// Recorder receives an event after each applied mutation.
type Recorder interface {
	Record(ctx context.Context, event todo.Event) error
}

// Options configures a Store.
type Options struct {
	// Path is the backing file.
	Path string
	// Logger receives load/save diagnostics. Nil discards them.
	Logger *log.Logger
	// Lock holds an advisory lock on Path+".lock" for each operation.
	Lock bool
	// Now is the clock. Nil means time.Now.
	Now func() time.Time
	// Recorders are notified after each applied mutation.
	Recorders []Recorder
}

// Store reads and writes one backing file.
type Store struct {
	path      string
	logger    *log.Logger
	lock      bool
	now       func() time.Time
	recorders []Recorder
}

// Result reports the outcome of a mutating operation.
type Result struct {
	Task      todo.Task
	Count     int
	Persisted bool
}

// Snapshot is a read-only view of the list. LoadErr is set when the
// backing file existed but could not be read or parsed.
type Snapshot struct {
	Tasks   todo.List
	Counts  todo.Counts
	LoadErr error
}

// New creates a Store.
func New(opts Options) *Store {
	s := &Store{
		path:      opts.Path,
		logger:    opts.Logger,
		lock:      opts.Lock,
		now:       opts.Now,
		recorders: opts.Recorders,
	}
	if s.logger == nil {
		s.logger = logging.NewDiscardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file. A missing file is an empty list; any other
// failure is logged as a warning and also yields an empty list.
func (s *Store) Load(ctx context.Context) todo.List {
	list, _ := s.load(ctx)
	return list
}

func (s *Store) load(_ context.Context) (todo.List, error) {
	list, err := todo.Load(s.path)
	if err == nil {
		return list, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return todo.List{}, nil
	}
	s.logger.Warn("could not load tasks, starting with an empty list", "path", s.path, "err", err)
	return todo.List{}, err
}

// Save rewrites the backing file. Failures are logged, never returned.
func (s *Store) Save(_ context.Context, list todo.List) bool {
	if err := list.Save(s.path); err != nil {
		s.logger.Error("could not save tasks", "path", s.path, "err", err)
		return false
	}
	return true
}

// Add appends a new task.
func (s *Store) Add(ctx context.Context, description string) (Result, error) {
	unlock := s.acquire(ctx, false)
	defer unlock()

	list := s.Load(ctx)
	task, err := list.Add(description, s.now())
	if err != nil {
		return Result{}, err
	}

	res := Result{Task: task, Count: 1, Persisted: s.Save(ctx, list)}
	s.emit(ctx, todo.OpAdd, res)
	return res, nil
}

// List returns the current tasks and counts. It never writes, and creates
// no lock file while the backing file does not exist.
func (s *Store) List(ctx context.Context) Snapshot {
	unlock := s.acquire(ctx, true)
	defer unlock()

	list, err := s.load(ctx)
	return Snapshot{Tasks: list, Counts: list.Counts(), LoadErr: err}
}

// Complete marks the task named by rawID as completed. rawID is parsed with
// todo.ParseID; text that is not a number is reported as todo.ErrNotFound.
// Completing a completed task returns todo.ErrAlreadyCompleted with the task
// and leaves the file untouched.
func (s *Store) Complete(ctx context.Context, rawID string) (Result, error) {
	id, ok := todo.ParseID(rawID)
	if !ok {
		return Result{}, todo.ErrNotFound
	}

	unlock := s.acquire(ctx, false)
	defer unlock()

	list := s.Load(ctx)
	task, err := list.Complete(id, s.now())
	if err != nil {
		return Result{Task: task}, err
	}

	res := Result{Task: task, Count: 1, Persisted: s.Save(ctx, list)}
	s.emit(ctx, todo.OpComplete, res)
	return res, nil
}

// Delete removes the task named by rawID.
func (s *Store) Delete(ctx context.Context, rawID string) (Result, error) {
	id, ok := todo.ParseID(rawID)
	if !ok {
		return Result{}, todo.ErrNotFound
	}

	unlock := s.acquire(ctx, false)
	defer unlock()

	list := s.Load(ctx)
	task, err := list.Remove(id)
	if err != nil {
		return Result{}, err
	}

	res := Result{Task: task, Count: 1, Persisted: s.Save(ctx, list)}
	s.emit(ctx, todo.OpDelete, res)
	return res, nil
}

// Clear removes every completed task. It returns todo.ErrNothingToClear
// without saving when none is completed.
func (s *Store) Clear(ctx context.Context) (Result, error) {
	unlock := s.acquire(ctx, false)
	defer unlock()

	list := s.Load(ctx)
	removed := list.ClearCompleted()
	if len(removed) == 0 {
		return Result{}, todo.ErrNothingToClear
	}

	res := Result{Count: len(removed), Persisted: s.Save(ctx, list)}
	s.emit(ctx, todo.OpClear, res)
	return res, nil
}

// acquire takes the advisory lock and returns its release function. When
// locking is disabled or the lock cannot be taken the returned function is a
// no-op and the operation runs unlocked. A shared lock on a missing backing
// file is skipped: there is nothing to read.
func (s *Store) acquire(ctx context.Context, shared bool) func() {
	if !s.lock {
		return func() {}
	}
	if shared {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return func() {}
		}
	}

	// A fresh handle per operation so goroutines of this process exclude
	// each other as well.
	fl := flock.New(s.path + lockSuffix)

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if shared {
		locked, err = fl.TryRLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = fl.TryLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil || !locked {
		s.logger.Warn("could not lock tasks file, continuing without lock", "path", fl.Path(), "err", err)
		_ = fl.Close()
		return func() {}
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("could not release tasks file lock", "path", fl.Path(), "err", err)
		}
		_ = fl.Close()
	}
}

func (s *Store) emit(ctx context.Context, op todo.Op, res Result) {
	if len(s.recorders) == 0 {
		return
	}
	event := todo.Event{
		Time:        s.now().UTC(),
		Op:          op,
		TaskID:      res.Task.ID,
		Description: res.Task.Description,
		Count:       res.Count,
		File:        s.path,
		Persisted:   res.Persisted,
	}
	for _, r := range s.recorders {
		if err := r.Record(ctx, event); err != nil {
			s.logger.Warn("event recorder failed", "op", op, "err", err)
		}
	}
}
