package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
	"github.com/sfko/legocat/internal/remote"
	"github.com/sfko/legocat/internal/store/storetest"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// setupTestServer serves the seeded catalog with the given page size.
func setupTestServer(t *testing.T, pageSize int) *httptest.Server {
	t.Helper()
	st := storetest.Open(t)
	svc := catalog.NewService(st, pageSize, testLogger)
	srv := httptest.NewServer(Handler(svc, st, &ServerConfig{Version: "test", EnableMetrics: true}, testLogger))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func setNums(sets []catalog.Set) []string {
	nums := make([]string, len(sets))
	for i, s := range sets {
		nums[i] = s.SetNum
	}
	return nums
}

// ==================== Sets ====================

func TestListSets_Paging(t *testing.T) {
	srv := setupTestServer(t, 2)

	var first remote.SetListResponse
	resp := getJSON(t, srv, "/sets", &first)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, []string{"0000-1", "6990-1"}, setNums(first.Sets))
	assert.Equal(t, "/inventories/set/0000-1", first.Sets[0].InventoryURL)
	require.NotNil(t, first.NextPageURL)
	assert.Equal(t, "/sets?page=1", *first.NextPageURL)
	assert.Nil(t, first.PrevPageURL)

	var last remote.SetListResponse
	getJSON(t, srv, "/sets?page=2", &last)
	assert.Equal(t, []string{"7140-1", "7140-2"}, setNums(last.Sets))
	assert.Nil(t, last.NextPageURL)
	require.NotNil(t, last.PrevPageURL)
	assert.Equal(t, "/sets?page=1", *last.PrevPageURL)

	var past remote.SetListResponse
	getJSON(t, srv, "/sets?page=9", &past)
	assert.NotNil(t, past.Sets)
	assert.Empty(t, past.Sets)
}

func TestListSets_LinksKeepFilters(t *testing.T) {
	srv := setupTestServer(t, 1)

	var body remote.SetListResponse
	getJSON(t, srv, "/sets?name=X-WING&themeId=131", &body)

	assert.Equal(t, []string{"7140-1"}, setNums(body.Sets))
	assert.Equal(t, "X-Wing Fighter", body.Sets[0].Name)
	assert.Equal(t, "Blacktron", body.Sets[0].ThemeName)
	require.NotNil(t, body.NextPageURL)
	assert.Equal(t, "/sets?name=X-WING&page=1&themeId=131", *body.NextPageURL)
}

func TestListSets_Filters(t *testing.T) {
	srv := setupTestServer(t, 100)

	tests := []struct {
		query string
		want  []string
	}{
		{"?year=1999", []string{"7140-1"}},
		{"?minParts=263", []string{"8880-1", "497-1"}},
		{"?minParts=0", []string{"0000-1", "6990-1", "497-1", "8880-1", "7140-1", "7140-2"}},
		{"?name=fighter&year=2002", []string{"7140-2"}},
		{"?name=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var body remote.SetListResponse
			getJSON(t, srv, "/sets"+tt.query, &body)
			assert.ElementsMatch(t, tt.want, setNums(body.Sets))
		})
	}
}

func TestListSets_RejectsBadParams(t *testing.T) {
	srv := setupTestServer(t, 100)

	for _, query := range []string{"?year=abc", "?page=-1", "?minParts=-5", "?themeId=1.5"} {
		t.Run(query, func(t *testing.T) {
			var body remote.ErrorResponse
			resp := getJSON(t, srv, "/sets"+query, &body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, remote.CodeValidationRejected, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

// ==================== Inventories ====================

func TestSetInventory(t *testing.T) {
	srv := setupTestServer(t, 100)

	var inv catalog.Inventory
	resp := getJSON(t, srv, "/inventories/set/497-1", &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "497-1", inv.SetNum)
	assert.Equal(t, "Galaxy Explorer", inv.SetName)
	assert.Equal(t, int64(2), inv.Version)
	require.Len(t, inv.Parts, 2)
	assert.Equal(t, "3001", inv.Parts[0].PartNum)
	assert.Equal(t, []catalog.Variant{
		{ColorName: "Black", Quantity: 4},
		{ColorName: "Red", Quantity: 2},
		{ColorName: "Red", Quantity: 1, IsSpare: true},
	}, inv.Parts[0].Variants)
	assert.Equal(t, "Minifigs", inv.Parts[1].CategoryName)
}

func TestSetInventory_Errors(t *testing.T) {
	srv := setupTestServer(t, 100)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/inventories/set/6990-1", http.StatusNotFound, remote.CodeNotFound},
		{"/inventories/set/1234-5", http.StatusNotFound, remote.CodeNotFound},
		{"/inventories/set/497%201", http.StatusBadRequest, remote.CodeValidationRejected},
		{"/inventories/set/x;drop", http.StatusBadRequest, remote.CodeValidationRejected},
		{"/inventories/set/497-1/and/x;drop", http.StatusBadRequest, remote.CodeValidationRejected},
		{"/inventories/set/497-1/and/6990-1", http.StatusNotFound, remote.CodeNotFound},
		{"/inventories/set/6990-1/and/497-1", http.StatusNotFound, remote.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body remote.ErrorResponse
			resp := getJSON(t, srv, tt.path, &body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestCommonInventory(t *testing.T) {
	srv := setupTestServer(t, 100)

	var inv catalog.CommonInventory
	resp := getJSON(t, srv, "/inventories/set/7140-1/and/7140-2", &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "7140-1", inv.Set1.SetNum)
	assert.Equal(t, "X-Wing Fighter (Re-release)", inv.Set2.SetName)
	require.Len(t, inv.Parts, 2)
	assert.Equal(t, "3001", inv.Parts[0].PartNum)
	assert.Equal(t, []catalog.Variant{{ColorName: "Red", Quantity: 4}}, inv.Parts[0].Variants)
	assert.Equal(t, "3020", inv.Parts[1].PartNum)
	assert.Equal(t, []catalog.Variant{{ColorName: "Black", Quantity: 2}}, inv.Parts[1].Variants)
}

// ==================== Parts ====================

func TestSetsWithPart(t *testing.T) {
	srv := setupTestServer(t, 100)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"497-1", "8880-1", "7140-1", "7140-2"}},
		{"?colorId=4", []string{"497-1", "7140-1", "7140-2"}},
		{"?colorId=4&minQuantity=5", []string{"497-1", "7140-2"}},
		{"?colorId=47", []string{"7140-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var body remote.SetListResponse
			resp := getJSON(t, srv, "/parts/3001/sets"+tt.query, &body)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, setNums(body.Sets))
		})
	}
}

func TestSetsWithPart_PagingLinks(t *testing.T) {
	srv := setupTestServer(t, 2)

	var body remote.SetListResponse
	getJSON(t, srv, "/parts/3001/sets?colorId=4", &body)

	assert.Equal(t, []string{"497-1", "7140-1"}, setNums(body.Sets))
	require.NotNil(t, body.NextPageURL)
	assert.Equal(t, "/parts/3001/sets?colorId=4&page=1", *body.NextPageURL)
}

func TestSetsWithPart_Errors(t *testing.T) {
	srv := setupTestServer(t, 100)

	var unused remote.SetListResponse
	resp := getJSON(t, srv, "/parts/3039/sets", &unused)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, unused.Sets)

	var body remote.ErrorResponse
	resp = getJSON(t, srv, "/parts/9999/sets", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, remote.CodeNotFound, body.Error)

	resp = getJSON(t, srv, "/parts/3001/sets?colorId=red", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, remote.CodeValidationRejected, body.Error)
}

// ==================== Themes ====================

func TestThemes(t *testing.T) {
	srv := setupTestServer(t, 100)

	var forest []*catalog.Theme
	resp := getJSON(t, srv, "/themes", &forest)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, forest, 2)
	assert.Equal(t, "Space", forest[0].Name)
	require.Len(t, forest[0].Subthemes, 3)
	assert.Equal(t, "Blacktron", forest[0].Subthemes[0].Name)

	technic := forest[1]
	assert.Equal(t, "Technic", technic.Name)
	require.Len(t, technic.Subthemes, 1)
	require.Len(t, technic.Subthemes[0].Subthemes, 1)
	assert.Equal(t, "Supercar", technic.Subthemes[0].Subthemes[0].Name)
}

func TestSubthemes(t *testing.T) {
	srv := setupTestServer(t, 100)

	var space []*catalog.Theme
	getJSON(t, srv, "/themes/130", &space)
	require.Len(t, space, 3)
	assert.Equal(t, int64(131), space[0].ID)

	var technic []*catalog.Theme
	getJSON(t, srv, "/themes/50", &technic)
	require.Len(t, technic, 1)
	assert.Equal(t, "Model", technic[0].Name)
	require.Len(t, technic[0].Subthemes, 1)

	var leaf []*catalog.Theme
	resp := getJSON(t, srv, "/themes/3", &leaf)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, leaf)
	assert.Empty(t, leaf)

	var body remote.ErrorResponse
	resp = getJSON(t, srv, "/themes/999", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, remote.CodeNotFound, body.Error)

	resp = getJSON(t, srv, "/themes/space", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, remote.CodeValidationRejected, body.Error)
}

// ==================== Health & routing ====================

func TestWellness(t *testing.T) {
	srv := setupTestServer(t, 100)

	var body remote.WellnessResponse
	resp := getJSON(t, srv, "/wellness", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, remote.WellnessResponse{Status: "👍", APIVersion: 1, AssemblyVersion: "test"}, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestReadyz(t *testing.T) {
	srv := setupTestServer(t, 100)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestReadyz_DatabaseDown(t *testing.T) {
	st := storetest.Open(t)
	srv := httptest.NewServer(Handler(catalog.NewService(st, 10, testLogger), downPinger{}, nil, testLogger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t, 100)
	getJSON(t, srv, "/themes", nil).Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `legocat_api_requests_total{method="GET",route="/themes",status_code="200"}`)
}

func TestRouting(t *testing.T) {
	srv := setupTestServer(t, 100)

	var body remote.ErrorResponse
	resp := getJSON(t, srv, "/bricks", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, remote.CodeRouteNotFound, body.Error)

	post, err := http.Post(srv.URL+"/sets", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

// ==================== Failure modes ====================

// failingCatalog fails or panics on every call
type failingCatalog struct {
	panics bool
}

func (f failingCatalog) fail() error {
	if f.panics {
		panic("boom")
	}
	return errors.New("database is locked")
}

func (f failingCatalog) ListSets(context.Context, models.SetQuery, int) (*catalog.SetPage, error) {
	return nil, f.fail()
}

func (f failingCatalog) SetsWithPart(context.Context, models.PartUsageQuery, int) (*catalog.SetPage, error) {
	return nil, f.fail()
}

func (f failingCatalog) SetInventory(context.Context, string) (*catalog.Inventory, error) {
	return nil, f.fail()
}

func (f failingCatalog) CommonInventory(context.Context, string, string) (*catalog.CommonInventory, error) {
	return nil, f.fail()
}

func (f failingCatalog) ThemeForest(context.Context) ([]*catalog.Theme, error) {
	return nil, f.fail()
}

func (f failingCatalog) ThemeSubtree(context.Context, int64) ([]*catalog.Theme, error) {
	return nil, f.fail()
}

func TestStoreFailure(t *testing.T) {
	for _, panics := range []bool{false, true} {
		h := Handler(failingCatalog{panics: panics}, downPinger{}, nil, testLogger)

		req := httptest.NewRequest(http.MethodGet, "/inventories/set/497-1", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		var body remote.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, remote.CodeInternal, body.Error)
		assert.NotContains(t, w.Body.String(), "database is locked")
	}
}

func TestValidationRunsBeforeCatalog(t *testing.T) {
	// a catalog call would panic; rejection must happen first
	h := Handler(failingCatalog{panics: true}, downPinger{}, nil, testLogger)

	req := httptest.NewRequest(http.MethodGet, "/inventories/set/bad$set", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
