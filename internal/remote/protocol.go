// Package remote defines the wire types of the legocat HTTP API and a client for it.
package remote

import (
	"net/url"
	"strconv"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
)

// APIVersion is reported by the wellness endpoint
const APIVersion = 1

// SetListResponse is one page of sets with links to its neighbours.
// A nil link means there is no such page.
type SetListResponse struct {
	Sets        []catalog.Set `json:"sets"`
	NextPageURL *string       `json:"nextPageUrl"`
	PrevPageURL *string       `json:"prevPageUrl"`
}

// WellnessResponse is the fixed health payload
type WellnessResponse struct {
	Status          string `json:"status"`
	APIVersion      int    `json:"apiVersion"`
	AssemblyVersion string `json:"assemblyVersion"`
}

// ErrorResponse is the structured error format returned by the server.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error codes carried in ErrorResponse.Error
const (
	CodeNotFound           = "not_found"
	CodeValidationRejected = "validation_rejected"
	CodeRouteNotFound      = "route_not_found"
	CodeInternal           = "internal_error"
)

// InventoryPath returns the path of a set's inventory
func InventoryPath(setNum string) string {
	return "/inventories/set/" + url.PathEscape(setNum)
}

// CommonInventoryPath returns the path of the intersection of two sets
func CommonInventoryPath(setNum1, setNum2 string) string {
	return InventoryPath(setNum1) + "/and/" + url.PathEscape(setNum2)
}

// PartSetsPath returns the path listing the sets that contain a part
func PartSetsPath(partNum string) string {
	return "/parts/" + url.PathEscape(partNum) + "/sets"
}

// SetQueryValues encodes a set search as query parameters. Zero-valued
// criteria and page 0 are omitted.
func SetQueryValues(q models.SetQuery, page int) url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	setInt(v, "year", q.Year)
	setInt(v, "themeId", q.ThemeID)
	setInt(v, "minParts", q.MinParts)
	setInt(v, "page", int64(page))
	return v
}

// PartUsageValues encodes the filters of a part usage query
func PartUsageValues(q models.PartUsageQuery, page int) url.Values {
	v := url.Values{}
	if q.ColorID != nil {
		v.Set("colorId", strconv.FormatInt(*q.ColorID, 10))
	}
	setInt(v, "minQuantity", q.MinQuantity)
	setInt(v, "page", int64(page))
	return v
}

func setInt(v url.Values, key string, n int64) {
	if n != 0 {
		v.Set(key, strconv.FormatInt(n, 10))
	}
}

// NewSetListResponse shapes a page of sets for the wire. Links point at
// path with every parameter of query kept and page replaced. Each set
// carries the path of its inventory.
func NewSetListResponse(p *catalog.SetPage, path string, query url.Values) *SetListResponse {
	out := &SetListResponse{Sets: make([]catalog.Set, len(p.Sets))}
	for i, s := range p.Sets {
		s.InventoryURL = InventoryPath(s.SetNum)
		out.Sets[i] = s
	}
	if p.HasNext {
		out.NextPageURL = pageLink(path, query, p.Page+1)
	}
	if p.HasPrev {
		out.PrevPageURL = pageLink(path, query, p.Page-1)
	}
	return out
}

func pageLink(path string, query url.Values, page int) *string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(page))
	link := path + "?" + q.Encode()
	return &link
}
