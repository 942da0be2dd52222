package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sfko/legocat/internal/models"
)

// LatestInventory returns the highest-version inventory for a set, joined with
// the set and its theme. It returns nil, nil when the set has no inventory.
func (s *Store) LatestInventory(ctx context.Context, setNum string) (inv *models.Inventory, err error) {
	defer observe("latest_inventory", time.Now(), &err)

	var i models.Inventory
	err = s.queryRow(ctx, `
		SELECT i.id, i.version, `+setColumns+`
		FROM inventories i
			JOIN sets s ON s.set_num = i.set_num
			JOIN themes t ON t.id = s.theme_id
		WHERE i.set_num = ?
		ORDER BY i.version DESC
		LIMIT 1`, setNum,
	).Scan(&i.ID, &i.Version,
		&i.Set.SetNum, &i.Set.Name, &i.Set.Year, &i.Set.ThemeID, &i.Set.ThemeName, &i.Set.NumParts)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory for set %s: %w", setNum, err)
	}
	return &i, nil
}

// InventoryParts returns the part rows of an inventory joined with part,
// category and color, ordered by part number, color name and spare flag.
// Spare rows are only included when includeSpares is true.
func (s *Store) InventoryParts(ctx context.Context, inventoryID int64, includeSpares bool) (parts []models.InventoryPart, err error) {
	defer observe("inventory_parts", time.Now(), &err)

	query := `
		SELECT ip.inventory_id, ip.part_num, p.name, p.part_cat_id, pc.name,
			c.id, c.name, c.rgb, c.is_trans, ip.quantity, ip.is_spare
		FROM inventory_parts ip
			JOIN parts p ON p.part_num = ip.part_num
			JOIN part_categories pc ON pc.id = p.part_cat_id
			JOIN colors c ON c.id = ip.color_id
		WHERE ip.inventory_id = ?`
	args := []any{inventoryID}
	if !includeSpares {
		query += ` AND ip.is_spare = ?`
		args = append(args, false)
	}
	query += `
		ORDER BY ip.part_num, c.name, ip.is_spare`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parts of inventory %d: %w", inventoryID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ip models.InventoryPart
		if err := rows.Scan(&ip.InventoryID, &ip.Part.PartNum, &ip.Part.Name, &ip.Part.CategoryID, &ip.Part.CategoryName,
			&ip.Color.ID, &ip.Color.Name, &ip.Color.RGB, &ip.Color.IsTrans, &ip.Quantity, &ip.IsSpare); err != nil {
			return nil, fmt.Errorf("scan inventory part: %w", err)
		}
		parts = append(parts, ip)
	}
	return parts, rows.Err()
}

// InventorySubsets returns the sub-sets listed in an inventory, ordered by set number
func (s *Store) InventorySubsets(ctx context.Context, inventoryID int64) (subsets []models.InventorySet, err error) {
	defer observe("inventory_subsets", time.Now(), &err)

	rows, err := s.query(ctx, `
		SELECT isets.inventory_id, isets.set_num, s.name, isets.quantity
		FROM inventory_sets isets
			JOIN sets s ON s.set_num = isets.set_num
		WHERE isets.inventory_id = ?
		ORDER BY isets.set_num`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("query subsets of inventory %d: %w", inventoryID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var is models.InventorySet
		if err := rows.Scan(&is.InventoryID, &is.SetNum, &is.SetName, &is.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory subset: %w", err)
		}
		subsets = append(subsets, is)
	}
	return subsets, rows.Err()
}
