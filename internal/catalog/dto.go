package catalog

// Set is the listing shape of a set
type Set struct {
	SetNum       string `json:"setNum"`
	Name         string `json:"name"`
	Year         int64  `json:"year"`
	ThemeID      int64  `json:"themeId"`
	ThemeName    string `json:"themeName"`
	NumParts     int64  `json:"numParts"`
	InventoryURL string `json:"inventoryUrl,omitempty"`
}

// SetPage is one page of a set listing
type SetPage struct {
	Sets    []Set
	Page    int
	HasPrev bool
	HasNext bool
}

// BasicSetInfo summarizes the set an inventory belongs to
type BasicSetInfo struct {
	SetNum    string `json:"setNum"`
	SetName   string `json:"setName"`
	Year      int64  `json:"year"`
	NumParts  int64  `json:"numParts"`
	ThemeName string `json:"themeName"`
}

// Inventory details the parts of a single set
type Inventory struct {
	BasicSetInfo
	Version int64           `json:"version"`
	Parts   []InventoryPart `json:"parts"`
	Subsets []Subset        `json:"subsets,omitempty"`
}

// CommonInventory lists the parts found in both of two sets
type CommonInventory struct {
	Set1  BasicSetInfo    `json:"set1"`
	Set2  BasicSetInfo    `json:"set2"`
	Parts []InventoryPart `json:"parts"`
}

// InventoryPart is a part and every color variant in which it appears
type InventoryPart struct {
	PartNum      string    `json:"partNum"`
	PartName     string    `json:"partName"`
	CategoryName string    `json:"categoryName"`
	Variants     []Variant `json:"variants"`
}

// Variant is one color/quantity/spare combination of a part
type Variant struct {
	ColorName string `json:"colorName"`
	IsTrans   bool   `json:"isTrans"`
	Quantity  int64  `json:"quantity"`
	IsSpare   bool   `json:"isSpare"`
}

// Subset is a set included within another set's inventory
type Subset struct {
	SetNum   string `json:"setNum"`
	SetName  string `json:"setName"`
	Quantity int64  `json:"quantity"`
}

// Theme is a node of the theme forest
type Theme struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Subthemes []*Theme `json:"subthemes"`
}
