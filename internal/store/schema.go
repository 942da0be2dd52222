package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// migration is one step of the SQLite development schema
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "catalog tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS colors (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				rgb TEXT NOT NULL,
				is_trans BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE TABLE IF NOT EXISTS themes (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				parent_id INTEGER,
				FOREIGN KEY (parent_id) REFERENCES themes(id)
			)`,
			`CREATE TABLE IF NOT EXISTS part_categories (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS parts (
				part_num TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				part_cat_id INTEGER NOT NULL,
				FOREIGN KEY (part_cat_id) REFERENCES part_categories(id)
			)`,
			`CREATE TABLE IF NOT EXISTS sets (
				set_num TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				year INTEGER NOT NULL,
				theme_id INTEGER NOT NULL,
				num_parts INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (theme_id) REFERENCES themes(id)
			)`,
			`CREATE TABLE IF NOT EXISTS inventories (
				id INTEGER PRIMARY KEY,
				version INTEGER NOT NULL,
				set_num TEXT NOT NULL,
				FOREIGN KEY (set_num) REFERENCES sets(set_num)
			)`,
			// rows are unique per (inventory, part, color, spare); no key is declared
			`CREATE TABLE IF NOT EXISTS inventory_parts (
				inventory_id INTEGER NOT NULL,
				part_num TEXT NOT NULL,
				color_id INTEGER NOT NULL,
				quantity INTEGER NOT NULL,
				is_spare BOOLEAN NOT NULL DEFAULT FALSE,
				FOREIGN KEY (inventory_id) REFERENCES inventories(id),
				FOREIGN KEY (part_num) REFERENCES parts(part_num),
				FOREIGN KEY (color_id) REFERENCES colors(id)
			)`,
			`CREATE TABLE IF NOT EXISTS inventory_sets (
				inventory_id INTEGER NOT NULL,
				set_num TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				PRIMARY KEY (inventory_id, set_num),
				FOREIGN KEY (inventory_id) REFERENCES inventories(id),
				FOREIGN KEY (set_num) REFERENCES sets(set_num)
			)`,
		},
	},
	{
		version: 2,
		name:    "query indexes",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_themes_parent ON themes(parent_id)`,
			`CREATE INDEX IF NOT EXISTS idx_sets_name ON sets(name)`,
			`CREATE INDEX IF NOT EXISTS idx_inventories_set ON inventories(set_num, version)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_parts_inventory ON inventory_parts(inventory_id)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_parts_part ON inventory_parts(part_num, color_id)`,
		},
	},
}

// Initialize creates or upgrades the catalog schema of a SQLite database.
// The catalog is loaded by an external process; this exists for local
// development databases and tests.
func (s *Store) Initialize(ctx context.Context) error {
	if s.driver != DriverSQLite {
		return fmt.Errorf("schema initialization is only supported for %s, not %s", DriverSQLite, s.driver)
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS legocat_schema_version (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return fmt.Errorf("failed to create version table: %w", err)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := s.migrate(ctx, m); err != nil {
			return fmt.Errorf("migration to v%d (%s) failed: %w", m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion returns the applied schema version, 0 for a database
// Initialize has never touched.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM legocat_schema_version").Scan(&version)
	if err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

func (s *Store) migrate(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO legocat_schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}

func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
