package models

// Part represents a distinct molded part
type Part struct {
	PartNum      string `json:"part_num"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"part_cat_id"`
	CategoryName string `json:"category_name"`
}

// Color represents a color in which parts are produced
type Color struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	RGB     string `json:"rgb"`
	IsTrans bool   `json:"is_trans"`
}
