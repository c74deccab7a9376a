package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSchemaVersion is returned when the database carries a schema version
// this build does not know. There is no upgrade path beyond version 1.
var ErrSchemaVersion = errors.New("unsupported schema version")

// applySchema brings db to types.SchemaVersion and returns the version found
// afterwards. The migrate instance is not closed: closing it would close db.
func applySchema(db *sql.DB, logger zerolog.Logger) (uint, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("creating migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("creating migration instance: %w", err)
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return current, fmt.Errorf("schema version %d is dirty", current)
	}
	if current > types.SchemaVersion {
		return current, fmt.Errorf("%w: %d", ErrSchemaVersion, current)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return current, fmt.Errorf("running migrations: %w", err)
		}
		logger.Debug().Uint("schema_version", current).Msg("schema up to date")
		return current, nil
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	logger.Info().Uint("from_version", current).Uint("to_version", version).Msg("schema created")
	return version, nil
}
