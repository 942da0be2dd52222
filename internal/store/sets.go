package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sfko/legocat/internal/models"
)

const setColumns = `s.set_num, s.name, s.year, s.theme_id, t.name, s.num_parts`

// SearchSets returns up to limit sets matching every non-zero criterion in q,
// ordered by name, skipping the first offset matches.
func (s *Store) SearchSets(ctx context.Context, q models.SetQuery, offset, limit int) (sets []models.Set, err error) {
	defer observe("search_sets", time.Now(), &err)

	var where []string
	var args []any
	if q.Name != "" {
		where = append(where, `LOWER(s.name) LIKE ? ESCAPE '!'`)
		args = append(args, likePattern(q.Name))
	}
	if q.Year != 0 {
		where = append(where, `s.year = ?`)
		args = append(args, q.Year)
	}
	if q.ThemeID != 0 {
		where = append(where, `s.theme_id = ?`)
		args = append(args, q.ThemeID)
	}
	if q.MinParts > 0 {
		where = append(where, `s.num_parts > ?`)
		args = append(args, q.MinParts)
	}

	query := `SELECT ` + setColumns + `
		FROM sets s
			JOIN themes t ON t.id = s.theme_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += `
		ORDER BY s.name, s.set_num
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	return scanSets(rows)
}

// SetsContainingPart returns the distinct sets with at least one non-spare
// inventory row for the part described by q, ordered by set name.
func (s *Store) SetsContainingPart(ctx context.Context, q models.PartUsageQuery, offset, limit int) (sets []models.Set, err error) {
	defer observe("sets_containing_part", time.Now(), &err)

	where := []string{`ip.part_num = ?`, `ip.is_spare = ?`}
	args := []any{q.PartNum, false}
	if q.ColorID != nil {
		where = append(where, `ip.color_id = ?`)
		args = append(args, *q.ColorID)
	}
	if q.MinQuantity > 0 {
		where = append(where, `ip.quantity > ?`)
		args = append(args, q.MinQuantity)
	}

	query := `SELECT DISTINCT ` + setColumns + `
		FROM inventory_parts ip
			JOIN inventories i ON i.id = ip.inventory_id
			JOIN sets s ON s.set_num = i.set_num
			JOIN themes t ON t.id = s.theme_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.name, s.set_num
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sets containing part %s: %w", q.PartNum, err)
	}
	return scanSets(rows)
}

func scanSets(rows *sql.Rows) ([]models.Set, error) {
	defer rows.Close()

	var sets []models.Set
	for rows.Next() {
		var set models.Set
		if err := rows.Scan(&set.SetNum, &set.Name, &set.Year, &set.ThemeID, &set.ThemeName, &set.NumParts); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}
