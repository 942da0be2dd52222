// Package storetest provides a seeded SQLite catalog for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfko/legocat/internal/store"
)

// Fixture is a small catalog covering every query shape the API serves.
//
// Theme 3 (Supercar) has a parent id (20) that sorts after its own parent's
// parent id (50), so it precedes its parent when ordered by parent id.
// Set 6990-1 has no inventory, part 3039 is in no inventory, and set 497-1
// has two inventory versions.
const Fixture = `
INSERT INTO themes (id, name, parent_id) VALUES
	(130, 'Space', NULL),
	(126, 'Classic Space', 130),
	(131, 'Blacktron', 130),
	(132, 'M-Tron', 130),
	(50, 'Technic', NULL),
	(20, 'Model', 50),
	(3, 'Supercar', 20);

INSERT INTO colors (id, name, rgb, is_trans) VALUES
	(0, 'Black', '05131D', FALSE),
	(4, 'Red', 'C91A09', FALSE),
	(15, 'White', 'FFFFFF', FALSE),
	(47, 'Trans-Clear', 'FCFCFC', TRUE);

INSERT INTO part_categories (id, name) VALUES
	(11, 'Bricks'),
	(13, 'Minifigs'),
	(14, 'Plates');

INSERT INTO parts (part_num, name, part_cat_id) VALUES
	('3001', 'Brick 2 x 4', 11),
	('3004', 'Brick 1 x 2', 11),
	('3020', 'Plate 2 x 4', 14),
	('3039', 'Slope 45 2 x 2', 11),
	('973p90c02', 'Torso Space Classic Moon Print', 13);

INSERT INTO sets (set_num, name, year, theme_id, num_parts) VALUES
	('497-1', 'Galaxy Explorer', 1979, 126, 342),
	('7140-1', 'X-Wing Fighter', 1999, 131, 263),
	('7140-2', 'X-Wing Fighter (Re-release)', 2002, 131, 263),
	('8880-1', 'Super Car', 1994, 3, 1343),
	('0000-1', 'Empty Box', 2000, 130, 0),
	('6990-1', 'Future Limited', 1987, 132, 210);

INSERT INTO inventories (id, version, set_num) VALUES
	(1, 1, '497-1'),
	(2, 2, '497-1'),
	(3, 1, '7140-1'),
	(4, 1, '7140-2'),
	(5, 1, '8880-1');

INSERT INTO inventory_parts (inventory_id, part_num, color_id, quantity, is_spare) VALUES
	(1, '3001', 4, 99, FALSE),
	(2, '3001', 4, 2, FALSE),
	(2, '3001', 4, 1, TRUE),
	(2, '3001', 0, 4, FALSE),
	(2, '973p90c02', 15, 1, FALSE),
	(3, '3001', 4, 4, FALSE),
	(3, '3020', 0, 2, FALSE),
	(3, '3004', 15, 3, TRUE),
	(3, '3001', 47, 1, FALSE),
	(4, '3001', 4, 6, FALSE),
	(4, '3020', 0, 5, FALSE),
	(4, '3004', 15, 3, FALSE),
	(4, '3020', 4, 1, FALSE),
	(5, '3001', 0, 10, FALSE),
	(5, '3001', 4, 1, TRUE);

INSERT INTO inventory_sets (inventory_id, set_num, quantity) VALUES
	(5, '0000-1', 2);
`

// Open creates an initialized SQLite store in a temp directory and loads Fixture.
func Open(t testing.TB) *store.Store {
	t.Helper()

	st, err := store.Open(context.Background(), store.DriverSQLite, Create(t), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// Create writes a seeded SQLite catalog to a temp directory and returns its path.
func Create(t testing.TB) string {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	st, err := store.Open(ctx, store.DriverSQLite, dbPath, store.Options{})
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize(ctx))
	_, err = st.DB().ExecContext(ctx, Fixture)
	require.NoError(t, err)

	return dbPath
}
