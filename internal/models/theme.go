package models

// Theme represents a node in the theme hierarchy
type Theme struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"` // nil for top-level themes
}
