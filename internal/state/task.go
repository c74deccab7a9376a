package state

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operation names carried by tasks and used as metric labels.
const (
	OpLoad          = "load"
	OpAddGame       = "add_game"
	OpUpdateGame    = "update_game"
	OpDeleteGame    = "delete_game"
	OpAddConsole    = "add_console"
	OpUpdateConsole = "update_console"
	OpDeleteConsole = "delete_console"
)

// Task is one asynchronous unit of work launched by the Controller.
type Task struct {
	ID      uuid.UUID
	Op      string
	Started time.Time

	done chan struct{}
	err  error
}

func newTask(op string) *Task {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Task{ID: id, Op: op, Started: time.Now(), done: make(chan struct{})}
}

// finish records err and releases waiters. Called exactly once.
func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's failure. It is nil while the task is running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends. It returns the task's
// error, or ctx's error if ctx ended first.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
