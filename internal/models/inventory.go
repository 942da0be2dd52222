package models

// Inventory is one versioned snapshot of a set's contents, joined with its set
type Inventory struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version"`
	Set     Set   `json:"set"`
}

// InventoryPart is a single inventory_parts row joined with part, category and color.
// Rows are unique per (inventory, part, color, spare), not per part.
type InventoryPart struct {
	InventoryID int64 `json:"inventory_id"`
	Part        Part  `json:"part"`
	Color       Color `json:"color"`
	Quantity    int64 `json:"quantity"`
	IsSpare     bool  `json:"is_spare"`
}

// InventorySet is a sub-set included in an inventory
type InventorySet struct {
	InventoryID int64  `json:"inventory_id"`
	SetNum      string `json:"set_num"`
	SetName     string `json:"set_name"`
	Quantity    int64  `json:"quantity"`
}
