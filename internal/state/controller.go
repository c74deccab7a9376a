// Package state holds the view state of the catalog: two observable
// collections kept in step with the store by asynchronous tasks.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/wikigames/internal/metrics"
	"github.com/mesh-intelligence/wikigames/internal/repository"
	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// ErrClosed is carried by tasks requested after Close.
var ErrClosed = errors.New("controller closed")

// Collection kinds used in logs and metric labels.
const (
	KindGame    = "game"
	KindConsole = "console"
)

// ErrorHandler receives every failed task after it has finished, so the
// handler may Wait on it. It runs on the task's goroutine before Controller.Wait
// returns.
type ErrorHandler func(t *Task, err error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for task failures and lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l.With().Str("component", "state").Logger()
	}
}

// WithMetrics records task outcomes and collection sizes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithErrorHandler registers a callback for failed tasks.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Controller) { c.onError = h }
}

// WithContext sets the parent of the controller's lifetime scope.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.parent = ctx }
}

// kind binds one record type to its collection and repository calls.
type kind[T any] struct {
	name     string
	coll     *Collection[T]
	id       func(T) int64
	validate func(T) error
	list     func(context.Context) ([]T, error)
	insert   func(context.Context, T) error
	update   func(context.Context, T) error
	remove   func(context.Context, T) error

	// reload serializes list-and-replace so the last reload applied
	// always reflects every insert that finished before it.
	reload *sync.Mutex
}

// Controller owns the games and consoles collections. Reads are synchronous;
// every mutation runs as a Task within the controller's lifetime scope.
type Controller struct {
	repo    repository.Catalog
	logger  zerolog.Logger
	metrics *metrics.Metrics
	onError ErrorHandler
	parent  context.Context

	ctx    context.Context
	cancel context.CancelFunc

	games    kind[types.GameRecord]
	consoles kind[types.ConsoleRecord]

	mu       sync.Mutex
	idle     *sync.Cond
	closed   bool
	inflight map[*Task]struct{}
	loadTask *Task
}

// New creates a controller over repo and schedules the initial load. The
// collections stay empty until that load finishes.
func New(repo repository.Catalog, opts ...Option) *Controller {
	c := &Controller{
		repo:     repo,
		logger:   zerolog.Nop(),
		parent:   context.Background(),
		inflight: make(map[*Task]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.idle = sync.NewCond(&c.mu)
	c.ctx, c.cancel = context.WithCancel(c.parent)

	c.games = kind[types.GameRecord]{
		name:     KindGame,
		coll:     newCollection[types.GameRecord](),
		id:       types.GameRecord.RecordID,
		validate: types.ValidateGame,
		list:     repo.Games,
		insert:   repo.AddGame,
		update:   repo.UpdateGame,
		remove:   repo.DeleteGame,
		reload:   &sync.Mutex{},
	}
	c.consoles = kind[types.ConsoleRecord]{
		name:     KindConsole,
		coll:     newCollection[types.ConsoleRecord](),
		id:       types.ConsoleRecord.RecordID,
		validate: types.ValidateConsole,
		list:     repo.Consoles,
		insert:   repo.AddConsole,
		update:   repo.UpdateConsole,
		remove:   repo.DeleteConsole,
		reload:   &sync.Mutex{},
	}

	c.loadTask = c.Load()
	return c
}

// Games is the observable list of games.
func (c *Controller) Games() *Collection[types.GameRecord] { return c.games.coll }

// Consoles is the observable list of consoles.
func (c *Controller) Consoles() *Collection[types.ConsoleRecord] { return c.consoles.coll }

// Game looks up a game by id in memory.
func (c *Controller) Game(id int64) (types.GameRecord, bool) {
	return c.games.coll.Find(func(g types.GameRecord) bool { return g.ID == id })
}

// Console looks up a console by id in memory.
func (c *Controller) Console(id int64) (types.ConsoleRecord, bool) {
	return c.consoles.coll.Find(func(r types.ConsoleRecord) bool { return r.ID == id })
}

// Total is the number of games plus consoles currently held.
func (c *Controller) Total() int {
	return c.games.coll.Len() + c.consoles.coll.Len()
}

// LoadTask returns the task started by New.
func (c *Controller) LoadTask() *Task { return c.loadTask }

// Load clears both collections and refills them from the repository,
// games first.
func (c *Controller) Load() *Task {
	return c.launch(OpLoad, func(ctx context.Context) error {
		c.games.coll.clear()
		c.consoles.coll.clear()
		if err := refill(ctx, c, c.games); err != nil {
			return err
		}
		return refill(ctx, c, c.consoles)
	})
}

// AddGame validates g and, if it passes, inserts it and reloads the games.
func (c *Controller) AddGame(g types.GameRecord) (*Task, error) {
	return add(c, c.games, OpAddGame, g)
}

// UpdateGame validates g and, if it passes, stores it and replaces the
// game with the same id in memory.
func (c *Controller) UpdateGame(g types.GameRecord) (*Task, error) {
	return update(c, c.games, OpUpdateGame, g)
}

// DeleteGame deletes g from the store and drops every game with its id.
func (c *Controller) DeleteGame(g types.GameRecord) *Task {
	return remove(c, c.games, OpDeleteGame, g)
}

// AddConsole is AddGame for consoles.
func (c *Controller) AddConsole(r types.ConsoleRecord) (*Task, error) {
	return add(c, c.consoles, OpAddConsole, r)
}

// UpdateConsole is UpdateGame for consoles.
func (c *Controller) UpdateConsole(r types.ConsoleRecord) (*Task, error) {
	return update(c, c.consoles, OpUpdateConsole, r)
}

// DeleteConsole is DeleteGame for consoles.
func (c *Controller) DeleteConsole(r types.ConsoleRecord) *Task {
	return remove(c, c.consoles, OpDeleteConsole, r)
}

// Wait blocks until no task is in flight.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.inflight) > 0 {
		c.idle.Wait()
	}
}

// Close cancels the lifetime scope and waits for running tasks. Tasks
// requested afterwards finish immediately with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.cancel()
	}
	c.mu.Unlock()
	c.Wait()
}

func add[T any](c *Controller, k kind[T], op string, rec T) (*Task, error) {
	if err := check(c, k, rec); err != nil {
		return nil, err
	}
	return c.launch(op, func(ctx context.Context) error {
		if err := k.insert(ctx, rec); err != nil {
			return err
		}
		return refill(ctx, c, k)
	}), nil
}

func update[T any](c *Controller, k kind[T], op string, rec T) (*Task, error) {
	if err := check(c, k, rec); err != nil {
		return nil, err
	}
	return c.launch(op, func(ctx context.Context) error {
		if err := k.update(ctx, rec); err != nil {
			return err
		}
		id := k.id(rec)
		if !k.coll.replaceFirst(func(x T) bool { return k.id(x) == id }, rec) {
			c.logger.Debug().Str("kind", k.name).Int64("id", id).Msg("update matched no entry")
		}
		c.metrics.SetCollectionSize(k.name, k.coll.Len())
		return nil
	}), nil
}

func remove[T any](c *Controller, k kind[T], op string, rec T) *Task {
	return c.launch(op, func(ctx context.Context) error {
		if err := k.remove(ctx, rec); err != nil {
			return err
		}
		id := k.id(rec)
		k.coll.removeAll(func(x T) bool { return k.id(x) == id })
		c.metrics.SetCollectionSize(k.name, k.coll.Len())
		return nil
	})
}

// check validates rec synchronously and counts rejections.
func check[T any](c *Controller, k kind[T], rec T) error {
	if err := k.validate(rec); err != nil {
		c.metrics.Rejected(k.name)
		return err
	}
	return nil
}

// refill replaces the contents of k's collection with a fresh scan.
func refill[T any](ctx context.Context, c *Controller, k kind[T]) error {
	k.reload.Lock()
	defer k.reload.Unlock()

	rows, err := k.list(ctx)
	if err != nil {
		return err
	}
	k.coll.replaceAll(rows)
	c.metrics.SetCollectionSize(k.name, len(rows))
	return nil
}

// launch runs fn on its own goroutine within the lifetime scope.
func (c *Controller) launch(op string, fn func(context.Context) error) *Task {
	t := newTask(op)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		t.finish(ErrClosed)
		return t
	}
	c.inflight[t] = struct{}{}
	c.mu.Unlock()

	go func() {
		err := fn(c.ctx)
		elapsed := time.Since(t.Started)
		c.metrics.ObserveTask(op, elapsed, err)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			c.logger.Error().Err(err).Str("task", t.ID.String()).Str("op", op).Msg("task failed")
		}
		t.finish(err)
		if err != nil && c.onError != nil {
			c.onError(t, err)
		}

		c.mu.Lock()
		delete(c.inflight, t)
		if len(c.inflight) == 0 {
			c.idle.Broadcast()
		}
		c.mu.Unlock()
	}()
	return t
}
