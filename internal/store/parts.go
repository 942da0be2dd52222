package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PartExists reports whether a part with the given part number exists
func (s *Store) PartExists(ctx context.Context, partNum string) (ok bool, err error) {
	defer observe("part_exists", time.Now(), &err)

	var found string
	err = s.queryRow(ctx, `SELECT part_num FROM parts WHERE part_num = ?`, partNum).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query part %s: %w", partNum, err)
	}
	return true, nil
}
