package types

import (
	"context"
	"errors"
)

// GameDAO declares the primitive store operations for games.
// Every call blocks until the store answers and must not run on a
// rendering goroutine.
type GameDAO interface {
	// GetAllGames returns every row of the games table in the store's
	// natural scan order. Each call scans the table.
	GetAllGames(ctx context.Context) ([]GameRecord, error)

	// InsertGame writes a new row. A zero ID lets the store assign one.
	// A row with the same ID is replaced entirely.
	InsertGame(ctx context.Context, g GameRecord) error

	// UpdateGame replaces the row whose ID matches g.ID.
	// Matching no row is not an error.
	UpdateGame(ctx context.Context, g GameRecord) error

	// DeleteGame removes the row whose ID matches g.ID.
	// Matching no row is not an error.
	DeleteGame(ctx context.Context, g GameRecord) error
}

// ConsoleDAO declares the primitive store operations for consoles.
// Semantics mirror GameDAO.
type ConsoleDAO interface {
	GetAllConsoles(ctx context.Context) ([]ConsoleRecord, error)
	InsertConsole(ctx context.Context, c ConsoleRecord) error
	UpdateConsole(ctx context.Context, c ConsoleRecord) error
	DeleteConsole(ctx context.Context, c ConsoleRecord) error
}

// CatalogDAO is the full data access contract over both tables.
type CatalogDAO interface {
	GameDAO
	ConsoleDAO
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store is a CatalogDAO with an explicit lifecycle. Callers attach it to a
// data directory once and detach it when done.
type Store interface {
	CatalogDAO

	// Attach opens the store described by config, creating the data
	// directory and schema when missing. Returns ErrAlreadyAttached if
	// called while attached.
	Attach(config Config) error

	// Detach releases the store. Idempotent. Afterwards every operation
	// returns ErrStoreDetached.
	Detach() error
}
