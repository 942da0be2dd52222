package catalog

import "github.com/sfko/legocat/internal/models"

// BuildThemeForest nests flat theme rows into a forest.
//
// Rows whose parent id equals rootParent become top-level nodes (a nil
// rootParent selects rows without a parent). Every other row is attached to
// the node with its parent id; rows whose parent is not among the input are
// dropped. Sibling order follows input order.
func BuildThemeForest(rows []models.Theme, rootParent *int64) []*Theme {
	nodes := make([]*Theme, len(rows))
	index := make(map[int64]*Theme, len(rows))
	for i, row := range rows {
		nodes[i] = &Theme{ID: row.ID, Name: row.Name, Subthemes: []*Theme{}}
		index[row.ID] = nodes[i]
	}

	forest := []*Theme{}
	for i, row := range rows {
		switch {
		case sameParent(row.ParentID, rootParent):
			forest = append(forest, nodes[i])
		case row.ParentID != nil:
			if parent, ok := index[*row.ParentID]; ok && parent != nodes[i] {
				parent.Subthemes = append(parent.Subthemes, nodes[i])
			}
		}
	}
	return forest
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
