package catalog

import (
	"sort"

	"github.com/sfko/legocat/internal/models"
)

// GroupInventoryParts groups inventory rows by part number, keeping one
// variant per row. Quantities are never merged, so a part seen both as a
// regular and a spare part in the same color yields two variants.
// Parts appear in order of first occurrence.
func GroupInventoryParts(rows []models.InventoryPart) []InventoryPart {
	parts := []InventoryPart{}
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.Part.PartNum]
		if !ok {
			i = len(parts)
			index[row.Part.PartNum] = i
			parts = append(parts, InventoryPart{
				PartNum:      row.Part.PartNum,
				PartName:     row.Part.Name,
				CategoryName: row.Part.CategoryName,
				Variants:     []Variant{},
			})
		}
		parts[i].Variants = append(parts[i].Variants, Variant{
			ColorName: row.Color.Name,
			IsTrans:   row.Color.IsTrans,
			Quantity:  row.Quantity,
			IsSpare:   row.IsSpare,
		})
	}
	return parts
}

type partColor struct {
	partNum string
	colorID int64
}

type colorQuantity struct {
	row      models.InventoryPart
	quantity int64
}

// IntersectParts returns the parts present in both inventories, matched on
// (part number, color). Each variant carries the smaller of the two
// quantities. Spare rows on either side are ignored. Part and color details
// come from the first inventory. Parts are ordered by part number and
// variants by color name.
func IntersectParts(first, second []models.InventoryPart) []InventoryPart {
	left := sumByPartColor(first)
	right := sumByPartColor(second)

	var joined []models.InventoryPart
	for key, l := range left {
		r, ok := right[key]
		if !ok {
			continue
		}
		row := l.row
		row.Quantity = min(l.quantity, r.quantity)
		row.IsSpare = false
		joined = append(joined, row)
	}

	sort.Slice(joined, func(i, j int) bool {
		if joined[i].Part.PartNum != joined[j].Part.PartNum {
			return joined[i].Part.PartNum < joined[j].Part.PartNum
		}
		if joined[i].Color.Name != joined[j].Color.Name {
			return joined[i].Color.Name < joined[j].Color.Name
		}
		return joined[i].Color.ID < joined[j].Color.ID
	})

	return GroupInventoryParts(joined)
}

// sumByPartColor totals non-spare quantities per (part, color)
func sumByPartColor(rows []models.InventoryPart) map[partColor]colorQuantity {
	out := make(map[partColor]colorQuantity, len(rows))
	for _, row := range rows {
		if row.IsSpare {
			continue
		}
		key := partColor{partNum: row.Part.PartNum, colorID: row.Color.ID}
		cq, ok := out[key]
		if !ok {
			cq.row = row
		}
		cq.quantity += row.Quantity
		out[key] = cq
	}
	return out
}

// VariantCount returns the total number of variants across parts
func VariantCount(parts []InventoryPart) int {
	n := 0
	for _, p := range parts {
		n += len(p.Variants)
	}
	return n
}
