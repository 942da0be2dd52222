// Package models defines the catalog entities read from the store,
// including sets, themes, parts, colors and inventories.
package models

// Set represents a packaged LEGO product
type Set struct {
	SetNum    string `json:"set_num"`
	Name      string `json:"name"`
	Year      int64  `json:"year"`
	ThemeID   int64  `json:"theme_id"`
	ThemeName string `json:"theme_name"` // joined from themes
	NumParts  int64  `json:"num_parts"`
}

// SetQuery holds the optional criteria for listing sets.
// Zero values mean "no filter".
type SetQuery struct {
	Name     string
	Year     int64
	ThemeID  int64
	MinParts int64 // exclusive lower bound on num_parts
}

// PartUsageQuery holds the criteria for finding sets that contain a part
type PartUsageQuery struct {
	PartNum     string
	ColorID     *int64 // nil matches any color
	MinQuantity int64  // exclusive lower bound on quantity, 0 disables
}
