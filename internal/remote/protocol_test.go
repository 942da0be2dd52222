package remote

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
)

func TestNewSetListResponse_Links(t *testing.T) {
	page := &catalog.SetPage{
		Sets:    []catalog.Set{{SetNum: "497-1", Name: "Galaxy Explorer"}},
		Page:    1,
		HasPrev: true,
		HasNext: true,
	}
	query := url.Values{"name": {"space"}, "year": {"1979"}, "page": {"1"}}

	resp := NewSetListResponse(page, "/sets", query)

	require.NotNil(t, resp.NextPageURL)
	require.NotNil(t, resp.PrevPageURL)
	assert.Equal(t, "/sets?name=space&page=2&year=1979", *resp.NextPageURL)
	assert.Equal(t, "/sets?name=space&page=0&year=1979", *resp.PrevPageURL)
	assert.Equal(t, "/inventories/set/497-1", resp.Sets[0].InventoryURL)
	// the caller's values are left alone
	assert.Equal(t, "1", query.Get("page"))
}

func TestNewSetListResponse_SinglePage(t *testing.T) {
	resp := NewSetListResponse(&catalog.SetPage{Sets: []catalog.Set{}}, "/sets", url.Values{})

	assert.Nil(t, resp.NextPageURL)
	assert.Nil(t, resp.PrevPageURL)
	assert.NotNil(t, resp.Sets)
}

func TestSetQueryValues(t *testing.T) {
	v := SetQueryValues(models.SetQuery{Name: "car", ThemeID: 3, MinParts: 100}, 2)
	assert.Equal(t, "minParts=100&name=car&page=2&themeId=3", v.Encode())

	assert.Empty(t, SetQueryValues(models.SetQuery{}, 0))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/inventories/set/497-1", InventoryPath("497-1"))
	assert.Equal(t, "/inventories/set/7140-1/and/7140-2", CommonInventoryPath("7140-1", "7140-2"))
	assert.Equal(t, "/parts/973p90c02/sets", PartSetsPath("973p90c02"))
}
