package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

const consoleColumns = "id, name, description, manufacturer, release_year, generation, image_reference"

// consolesTable is the accessor for the consoles table.
type consolesTable struct {
	backend *Backend
}

func (ct *consolesTable) getAll(ctx context.Context) ([]types.ConsoleRecord, error) {
	db, err := ct.backend.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT "+consoleColumns+" FROM consoles")
	if err != nil {
		return nil, fmt.Errorf("querying consoles: %w", err)
	}
	defer rows.Close()

	consoles := make([]types.ConsoleRecord, 0)
	for rows.Next() {
		c, err := hydrateConsole(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning console: %w", err)
		}
		consoles = append(consoles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consoles: %w", err)
	}
	return consoles, nil
}

func (ct *consolesTable) insert(ctx context.Context, c types.ConsoleRecord) error {
	db, err := ct.backend.handle()
	if err != nil {
		return err
	}
	return insertConsole(ctx, db, c)
}

// insertConsole writes c through ex, which is the pool or an open transaction.
func insertConsole(ctx context.Context, ex execer, c types.ConsoleRecord) error {
	_, err := ex.ExecContext(ctx,
		"INSERT OR REPLACE INTO consoles ("+consoleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		nullableID(c.ID), c.Name, c.Description, c.Manufacturer, c.ReleaseYear, c.Generation, nullableString(c.ImageReference),
	)
	if err != nil {
		return fmt.Errorf("inserting console: %w", err)
	}
	return nil
}

func (ct *consolesTable) update(ctx context.Context, c types.ConsoleRecord) error {
	db, err := ct.backend.handle()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE consoles SET name = ?, description = ?, manufacturer = ?, release_year = ?, generation = ?, image_reference = ?
		WHERE id = ?`,
		c.Name, c.Description, c.Manufacturer, c.ReleaseYear, c.Generation, nullableString(c.ImageReference), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating console %d: %w", c.ID, err)
	}
	return nil
}

func (ct *consolesTable) delete(ctx context.Context, c types.ConsoleRecord) error {
	db, err := ct.backend.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM consoles WHERE id = ?", c.ID); err != nil {
		return fmt.Errorf("deleting console %d: %w", c.ID, err)
	}
	return nil
}

func hydrateConsole(row rowScanner) (types.ConsoleRecord, error) {
	var (
		c     types.ConsoleRecord
		image sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Manufacturer, &c.ReleaseYear, &c.Generation, &image); err != nil {
		return types.ConsoleRecord{}, err
	}
	c.ImageReference = stringPtr(image)
	return c, nil
}
