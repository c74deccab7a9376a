package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// Compile-time interface check.
var _ types.CatalogDAO = (*MemoryDAO)(nil)

// MemoryDAO is an in-memory CatalogDAO for tests. It mirrors the SQLite
// semantics: ids are assigned from a per-table counter, scans return rows
// in id order, and update/delete of a missing id are no-ops.
type MemoryDAO struct {
	mu       sync.Mutex
	games    []types.GameRecord
	consoles []types.ConsoleRecord
	nextGame int64
	nextCons int64
	failWith error
	calls    int
}

// NewMemoryDAO creates an empty MemoryDAO.
func NewMemoryDAO() *MemoryDAO {
	return &MemoryDAO{}
}

// FailWith makes every following call return err. Pass nil to recover.
func (m *MemoryDAO) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Calls reports how many DAO operations have been invoked.
func (m *MemoryDAO) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// enter records a call and returns the injected failure, if any.
// The caller must hold m.mu.
func (m *MemoryDAO) enter(ctx context.Context) error {
	m.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failWith
}

func (m *MemoryDAO) GetAllGames(ctx context.Context) ([]types.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(m.games), nil
}

func (m *MemoryDAO) InsertGame(ctx context.Context, g types.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	if g.ID == 0 {
		m.nextGame++
		g.ID = m.nextGame
	} else {
		m.nextGame = max(m.nextGame, g.ID)
	}
	m.games = upsert(m.games, g, types.GameRecord.RecordID)
	return nil
}

func (m *MemoryDAO) UpdateGame(ctx context.Context, g types.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	if i := slices.IndexFunc(m.games, func(x types.GameRecord) bool { return x.ID == g.ID }); i >= 0 {
		m.games[i] = g
	}
	return nil
}

func (m *MemoryDAO) DeleteGame(ctx context.Context, g types.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.games = slices.DeleteFunc(m.games, func(x types.GameRecord) bool { return x.ID == g.ID })
	return nil
}

func (m *MemoryDAO) GetAllConsoles(ctx context.Context) ([]types.ConsoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(m.consoles), nil
}

func (m *MemoryDAO) InsertConsole(ctx context.Context, c types.ConsoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	if c.ID == 0 {
		m.nextCons++
		c.ID = m.nextCons
	} else {
		m.nextCons = max(m.nextCons, c.ID)
	}
	m.consoles = upsert(m.consoles, c, types.ConsoleRecord.RecordID)
	return nil
}

func (m *MemoryDAO) UpdateConsole(ctx context.Context, c types.ConsoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	if i := slices.IndexFunc(m.consoles, func(x types.ConsoleRecord) bool { return x.ID == c.ID }); i >= 0 {
		m.consoles[i] = c
	}
	return nil
}

func (m *MemoryDAO) DeleteConsole(ctx context.Context, c types.ConsoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.consoles = slices.DeleteFunc(m.consoles, func(x types.ConsoleRecord) bool { return x.ID == c.ID })
	return nil
}

// upsert mirrors INSERT OR REPLACE on a rowid table: scans come back in id
// order, so a conflicting row is replaced where it stands and a new row is
// placed by id.
func upsert[T any](rows []T, rec T, id func(T) int64) []T {
	if i := slices.IndexFunc(rows, func(x T) bool { return id(x) == id(rec) }); i >= 0 {
		rows[i] = rec
		return rows
	}
	i := slices.IndexFunc(rows, func(x T) bool { return id(x) > id(rec) })
	if i < 0 {
		return append(rows, rec)
	}
	return slices.Insert(rows, i, rec)
}
