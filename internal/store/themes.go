package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sfko/legocat/internal/models"
)

// Themes returns every theme ordered by parent id, then name
func (s *Store) Themes(ctx context.Context) (themes []models.Theme, err error) {
	defer observe("themes", time.Now(), &err)

	rows, err := s.query(ctx, `
		SELECT id, name, parent_id
		FROM themes
		ORDER BY parent_id, name`)
	if err != nil {
		return nil, fmt.Errorf("query themes: %w", err)
	}
	return scanThemes(rows)
}

// ThemeDescendants returns every theme reachable from rootID by following
// child links, excluding the root itself, ordered by parent id, then name.
func (s *Store) ThemeDescendants(ctx context.Context, rootID int64) (themes []models.Theme, err error) {
	defer observe("theme_descendants", time.Now(), &err)

	rows, err := s.query(ctx, `
		WITH RECURSIVE theme_hierarchy(id, name, parent_id) AS (
			SELECT id, name, parent_id
			FROM themes
			WHERE parent_id = ?

			UNION
			SELECT themes.id, themes.name, themes.parent_id
			FROM themes
				JOIN theme_hierarchy ON themes.parent_id = theme_hierarchy.id
		)
		SELECT id, name, parent_id
		FROM theme_hierarchy
		ORDER BY parent_id, name`, rootID)
	if err != nil {
		return nil, fmt.Errorf("query theme descendants of %d: %w", rootID, err)
	}
	return scanThemes(rows)
}

// ThemeExists reports whether a theme with the given id exists
func (s *Store) ThemeExists(ctx context.Context, id int64) (ok bool, err error) {
	defer observe("theme_exists", time.Now(), &err)

	var found int64
	err = s.queryRow(ctx, `SELECT id FROM themes WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query theme %d: %w", id, err)
	}
	return true, nil
}

func scanThemes(rows *sql.Rows) ([]models.Theme, error) {
	defer rows.Close()

	var themes []models.Theme
	for rows.Next() {
		var t models.Theme
		var parentID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &parentID); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		if parentID.Valid {
			p := parentID.Int64
			t.ParentID = &p
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}
