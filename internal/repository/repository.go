// Package repository is the seam between the state layer and the store.
// Repository delegates every call to a types.CatalogDAO unchanged, so the
// state layer never references the storage technology.
package repository

import (
	"context"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// Catalog is the set of repository operations the state layer depends on.
type Catalog interface {
	Games(ctx context.Context) ([]types.GameRecord, error)
	AddGame(ctx context.Context, g types.GameRecord) error
	UpdateGame(ctx context.Context, g types.GameRecord) error
	DeleteGame(ctx context.Context, g types.GameRecord) error

	Consoles(ctx context.Context) ([]types.ConsoleRecord, error)
	AddConsole(ctx context.Context, c types.ConsoleRecord) error
	UpdateConsole(ctx context.Context, c types.ConsoleRecord) error
	DeleteConsole(ctx context.Context, c types.ConsoleRecord) error
}

// Compile-time interface check.
var _ Catalog = (*Repository)(nil)

// Repository passes each call to the DAO. Errors are returned unchanged.
type Repository struct {
	dao types.CatalogDAO
}

// New returns a Repository over dao.
func New(dao types.CatalogDAO) *Repository {
	return &Repository{dao: dao}
}

func (r *Repository) Games(ctx context.Context) ([]types.GameRecord, error) {
	return r.dao.GetAllGames(ctx)
}

func (r *Repository) AddGame(ctx context.Context, g types.GameRecord) error {
	return r.dao.InsertGame(ctx, g)
}

func (r *Repository) UpdateGame(ctx context.Context, g types.GameRecord) error {
	return r.dao.UpdateGame(ctx, g)
}

func (r *Repository) DeleteGame(ctx context.Context, g types.GameRecord) error {
	return r.dao.DeleteGame(ctx, g)
}

func (r *Repository) Consoles(ctx context.Context) ([]types.ConsoleRecord, error) {
	return r.dao.GetAllConsoles(ctx)
}

func (r *Repository) AddConsole(ctx context.Context, c types.ConsoleRecord) error {
	return r.dao.InsertConsole(ctx, c)
}

func (r *Repository) UpdateConsole(ctx context.Context, c types.ConsoleRecord) error {
	return r.dao.UpdateConsole(ctx, c)
}

func (r *Repository) DeleteConsole(ctx context.Context, c types.ConsoleRecord) error {
	return r.dao.DeleteConsole(ctx, c)
}
