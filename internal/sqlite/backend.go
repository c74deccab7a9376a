// Package sqlite implements the SQLite storage backend for the game catalog.
// The backend owns one database file with a games table and a consoles
// table and exposes the CatalogDAO operations over them.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the embedded store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   zerolog.Logger

	games    *gamesTable
	consoles *consolesTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = l.With().Str("component", "store").Logger()
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.games = &gamesTable{backend: b}
	b.consoles = &consolesTable{backend: b}
	return b
}

// Attach opens the database file inside config.DataDir, creating the
// directory and the version 1 schema when missing.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, types.StoreFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// Single connection: concurrent tasks queue here instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	version, err := applySchema(db, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.logger.Info().Str("path", dbPath).Uint("schema_version", version).Msg("store attached")
	return nil
}

// Detach closes the database. Idempotent. After Detach every operation
// returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Info().Msg("store detached")
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// handle returns the open database or ErrStoreDetached.
func (b *Backend) handle() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// GetAllGames returns every game in natural scan order.
func (b *Backend) GetAllGames(ctx context.Context) ([]types.GameRecord, error) {
	return b.games.getAll(ctx)
}

// InsertGame writes g, replacing any row with the same non-zero ID.
func (b *Backend) InsertGame(ctx context.Context, g types.GameRecord) error {
	return b.games.insert(ctx, g)
}

// UpdateGame replaces the row with g.ID. No matching row is a no-op.
func (b *Backend) UpdateGame(ctx context.Context, g types.GameRecord) error {
	return b.games.update(ctx, g)
}

// DeleteGame removes the row with g.ID. No matching row is a no-op.
func (b *Backend) DeleteGame(ctx context.Context, g types.GameRecord) error {
	return b.games.delete(ctx, g)
}

// GetAllConsoles returns every console in natural scan order.
func (b *Backend) GetAllConsoles(ctx context.Context) ([]types.ConsoleRecord, error) {
	return b.consoles.getAll(ctx)
}

// InsertConsole writes c, replacing any row with the same non-zero ID.
func (b *Backend) InsertConsole(ctx context.Context, c types.ConsoleRecord) error {
	return b.consoles.insert(ctx, c)
}

// UpdateConsole replaces the row with c.ID. No matching row is a no-op.
func (b *Backend) UpdateConsole(ctx context.Context, c types.ConsoleRecord) error {
	return b.consoles.update(ctx, c)
}

// DeleteConsole removes the row with c.ID. No matching row is a no-op.
func (b *Backend) DeleteConsole(ctx context.Context, c types.ConsoleRecord) error {
	return b.consoles.delete(ctx, c)
}

// nullableID maps the unset ID 0 to NULL so AUTOINCREMENT assigns one.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// nullableString maps a nil image reference to NULL.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr is the inverse of nullableString.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
