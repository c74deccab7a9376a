package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

const gameColumns = "id, name, description, genre, year, developer, image_reference"

// gamesTable is the accessor for the games table. Each operation hydrates or
// dehydrates between rows and types.GameRecord values.
type gamesTable struct {
	backend *Backend
}

func (gt *gamesTable) getAll(ctx context.Context) ([]types.GameRecord, error) {
	db, err := gt.backend.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT "+gameColumns+" FROM games")
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	games := make([]types.GameRecord, 0)
	for rows.Next() {
		g, err := hydrateGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return games, nil
}

func (gt *gamesTable) insert(ctx context.Context, g types.GameRecord) error {
	db, err := gt.backend.handle()
	if err != nil {
		return err
	}
	return insertGame(ctx, db, g)
}

// insertGame writes g through ex, which is the pool or an open transaction.
func insertGame(ctx context.Context, ex execer, g types.GameRecord) error {
	_, err := ex.ExecContext(ctx,
		"INSERT OR REPLACE INTO games ("+gameColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		nullableID(g.ID), g.Name, g.Description, g.Genre, g.Year, g.Developer, nullableString(g.ImageReference),
	)
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}
	return nil
}

func (gt *gamesTable) update(ctx context.Context, g types.GameRecord) error {
	db, err := gt.backend.handle()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE games SET name = ?, description = ?, genre = ?, year = ?, developer = ?, image_reference = ?
		WHERE id = ?`,
		g.Name, g.Description, g.Genre, g.Year, g.Developer, nullableString(g.ImageReference), g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating game %d: %w", g.ID, err)
	}
	return nil
}

func (gt *gamesTable) delete(ctx context.Context, g types.GameRecord) error {
	db, err := gt.backend.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", g.ID); err != nil {
		return fmt.Errorf("deleting game %d: %w", g.ID, err)
	}
	return nil
}

// hydrateGame scans one games row.
func hydrateGame(row rowScanner) (types.GameRecord, error) {
	var (
		g     types.GameRecord
		image sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Genre, &g.Year, &g.Developer, &image); err != nil {
		return types.GameRecord{}, err
	}
	g.ImageReference = stringPtr(image)
	return g, nil
}
