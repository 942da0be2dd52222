package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
)

// CatalogClient is the set of catalog queries a legocat server answers
type CatalogClient interface {
	ListSets(ctx context.Context, q models.SetQuery, page int) (*SetListResponse, error)
	SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (*SetListResponse, error)

	SetInventory(ctx context.Context, setNum string) (*catalog.Inventory, error)
	CommonInventory(ctx context.Context, setNum1, setNum2 string) (*catalog.CommonInventory, error)

	Themes(ctx context.Context) ([]*catalog.Theme, error)
	Subthemes(ctx context.Context, rootID int64) ([]*catalog.Theme, error)

	Wellness(ctx context.Context) (*WellnessResponse, error)
}

// HTTPClient implements CatalogClient over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the server at baseURL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, respBody any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListSets fetches one page of sets matching q
func (c *HTTPClient) ListSets(ctx context.Context, q models.SetQuery, page int) (*SetListResponse, error) {
	var resp SetListResponse
	if err := c.get(ctx, "/sets", SetQueryValues(q, page), &resp); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return &resp, nil
}

// SetsWithPart fetches one page of sets containing a part
func (c *HTTPClient) SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (*SetListResponse, error) {
	var resp SetListResponse
	if err := c.get(ctx, PartSetsPath(q.PartNum), PartUsageValues(q, page), &resp); err != nil {
		return nil, fmt.Errorf("list sets with part %s: %w", q.PartNum, err)
	}
	return &resp, nil
}

// SetInventory fetches the latest inventory of a set
func (c *HTTPClient) SetInventory(ctx context.Context, setNum string) (*catalog.Inventory, error) {
	var resp catalog.Inventory
	if err := c.get(ctx, InventoryPath(setNum), nil, &resp); err != nil {
		return nil, fmt.Errorf("get inventory %s: %w", setNum, err)
	}
	return &resp, nil
}

// CommonInventory fetches the parts two sets have in common
func (c *HTTPClient) CommonInventory(ctx context.Context, setNum1, setNum2 string) (*catalog.CommonInventory, error) {
	var resp catalog.CommonInventory
	if err := c.get(ctx, CommonInventoryPath(setNum1, setNum2), nil, &resp); err != nil {
		return nil, fmt.Errorf("get common inventory %s and %s: %w", setNum1, setNum2, err)
	}
	return &resp, nil
}

// Themes fetches the full theme forest
func (c *HTTPClient) Themes(ctx context.Context) ([]*catalog.Theme, error) {
	var resp []*catalog.Theme
	if err := c.get(ctx, "/themes", nil, &resp); err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return resp, nil
}

// Subthemes fetches the descendants of a theme
func (c *HTTPClient) Subthemes(ctx context.Context, rootID int64) ([]*catalog.Theme, error) {
	var resp []*catalog.Theme
	if err := c.get(ctx, "/themes/"+strconv.FormatInt(rootID, 10), nil, &resp); err != nil {
		return nil, fmt.Errorf("list subthemes of %d: %w", rootID, err)
	}
	return resp, nil
}

// Wellness fetches the health payload
func (c *HTTPClient) Wellness(ctx context.Context) (*WellnessResponse, error) {
	var resp WellnessResponse
	if err := c.get(ctx, "/wellness", nil, &resp); err != nil {
		return nil, fmt.Errorf("wellness: %w", err)
	}
	return &resp, nil
}

// RemoteError represents a structured error from the server.
type RemoteError struct {
	Code    string
	Message string
	Status  int
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (%d): %s", e.Status, e.Code)
	}
	return fmt.Sprintf("remote error (%d): %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps a not_found response to catalog.ErrNotFound
func (e *RemoteError) Unwrap() error {
	if e.Code == CodeNotFound {
		return catalog.ErrNotFound
	}
	return nil
}

// IsValidationRejected reports whether err is a server-side rejection of the request parameters
func IsValidationRejected(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == CodeValidationRejected
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil || errResp.Error == "" {
		return &RemoteError{
			Code:    "unknown",
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	return &RemoteError{
		Code:    errResp.Error,
		Message: errResp.Message,
		Status:  resp.StatusCode,
	}
}
