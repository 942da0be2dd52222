package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfko/legocat/internal/models"
)

func ptr(v int64) *int64 { return &v }

func TestBuildThemeForest_NestsChildren(t *testing.T) {
	rows := []models.Theme{
		{ID: 130, Name: "Space"},
		{ID: 126, Name: "Classic Space", ParentID: ptr(130)},
		{ID: 131, Name: "Blacktron", ParentID: ptr(130)},
	}

	forest := BuildThemeForest(rows, nil)

	require.Len(t, forest, 1)
	assert.Equal(t, "Space", forest[0].Name)
	require.Len(t, forest[0].Subthemes, 2)
	assert.Equal(t, "Classic Space", forest[0].Subthemes[0].Name)
	assert.Equal(t, "Blacktron", forest[0].Subthemes[1].Name)
	assert.Empty(t, forest[0].Subthemes[0].Subthemes)
	assert.NotNil(t, forest[0].Subthemes[0].Subthemes)
}

func TestBuildThemeForest_ChildBeforeParent(t *testing.T) {
	// ordered by parent id: 20 < 50
	rows := []models.Theme{
		{ID: 50, Name: "Technic"},
		{ID: 3, Name: "Supercar", ParentID: ptr(20)},
		{ID: 20, Name: "Model", ParentID: ptr(50)},
	}

	forest := BuildThemeForest(rows, nil)

	require.Len(t, forest, 1)
	require.Len(t, forest[0].Subthemes, 1)
	model := forest[0].Subthemes[0]
	assert.Equal(t, int64(20), model.ID)
	require.Len(t, model.Subthemes, 1)
	assert.Equal(t, int64(3), model.Subthemes[0].ID)
}

func TestBuildThemeForest_DropsOrphans(t *testing.T) {
	rows := []models.Theme{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Lost", ParentID: ptr(999)},
		{ID: 3, Name: "Child of lost", ParentID: ptr(2)},
	}

	forest := BuildThemeForest(rows, nil)

	require.Len(t, forest, 1)
	assert.Equal(t, int64(1), forest[0].ID)
	assert.Empty(t, forest[0].Subthemes)
}

func TestBuildThemeForest_Subtree(t *testing.T) {
	rows := []models.Theme{
		{ID: 126, Name: "Classic Space", ParentID: ptr(130)},
		{ID: 131, Name: "Blacktron", ParentID: ptr(130)},
		{ID: 7, Name: "Blacktron II", ParentID: ptr(131)},
	}

	forest := BuildThemeForest(rows, ptr(130))

	require.Len(t, forest, 2)
	assert.Equal(t, int64(126), forest[0].ID)
	assert.Equal(t, int64(131), forest[1].ID)
	require.Len(t, forest[1].Subthemes, 1)
	assert.Equal(t, int64(7), forest[1].Subthemes[0].ID)
}

func TestBuildThemeForest_Empty(t *testing.T) {
	forest := BuildThemeForest(nil, nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuildThemeForest_SelfParentDoesNotLoop(t *testing.T) {
	rows := []models.Theme{
		{ID: 1, Name: "Root"},
		{ID: 5, Name: "Loop", ParentID: ptr(5)},
	}

	forest := BuildThemeForest(rows, nil)

	require.Len(t, forest, 1)
	assert.Empty(t, forest[0].Subthemes)
}

// Every input row whose parent chain reaches the root appears exactly once.
func TestBuildThemeForest_EachNodeOnce(t *testing.T) {
	rows := []models.Theme{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 10, Name: "A1", ParentID: ptr(1)},
		{ID: 11, Name: "A2", ParentID: ptr(1)},
		{ID: 20, Name: "B1", ParentID: ptr(2)},
		{ID: 100, Name: "A1a", ParentID: ptr(10)},
		{ID: 101, Name: "A1b", ParentID: ptr(10)},
	}

	seen := map[int64]int{}
	var walk func([]*Theme)
	walk = func(nodes []*Theme) {
		for _, n := range nodes {
			seen[n.ID]++
			walk(n.Subthemes)
		}
	}
	walk(BuildThemeForest(rows, nil))

	assert.Len(t, seen, len(rows))
	for id, n := range seen {
		assert.Equal(t, 1, n, "theme %d", id)
	}
}
