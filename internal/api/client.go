package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kutbudev/notion-mcp/internal/models"
)

const (
	DefaultBaseURL       = "https://api.notion.com/v1"
	DefaultNotionVersion = "2022-06-28"
	DefaultTimeout       = 30 * time.Second

	userAgent = "notion-mcp"
)

// Client is an authenticated handle to the Notion REST API. It holds no mutable
// state after construction and is safe for concurrent use.
type Client struct {
	BaseURL       string
	NotionVersion string
	HTTPClient    *http.Client

	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.BaseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithNotionVersion sets the Notion-Version header value.
func WithNotionVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.NotionVersion = version
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a new API client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		BaseURL:       DefaultBaseURL,
		NotionVersion: DefaultNotionVersion,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// makeRequest performs one HTTP round trip and returns the response body.
// There is no retry; any failure goes straight back to the caller.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.NotionVersion)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *Client) requestRaw(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	respBody, err := c.makeRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("invalid JSON in response from %s %s", method, endpoint)
	}
	return json.RawMessage(respBody), nil
}

func (c *Client) requestList(ctx context.Context, method, endpoint string, body interface{}) (*models.List, error) {
	respBody, err := c.makeRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	return models.DecodeList(respBody)
}

func pathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

// Search API

// SearchFilter restricts search results to one object kind.
type SearchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

type SearchParams struct {
	Query    string        `json:"query,omitempty"`
	Filter   *SearchFilter `json:"filter,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
}

func (c *Client) Search(ctx context.Context, params SearchParams) (*models.List, error) {
	return c.requestList(ctx, http.MethodPost, "/search", params)
}

// Page API methods

// Parent identifies where a new page is created. Exactly one field is set.
type Parent struct {
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

type CreatePageParams struct {
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

// UpdatePageParams carries either a property patch, an archived flag, or both.
type UpdatePageParams struct {
	Properties map[string]any `json:"properties,omitempty"`
	Archived   *bool          `json:"archived,omitempty"`
}

func (c *Client) RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodGet, "/pages/"+pathID(pageID), nil)
}

func (c *Client) CreatePage(ctx context.Context, params CreatePageParams) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodPost, "/pages", params)
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, params UpdatePageParams) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodPatch, "/pages/"+pathID(pageID), params)
}

// Block API methods

func (c *Client) RetrieveBlock(ctx context.Context, blockID string) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodGet, "/blocks/"+pathID(blockID), nil)
}

// ListBlockChildren lists the direct children of a block or page. A pageSize of
// zero leaves the page size to the API.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string, pageSize int) (*models.List, error) {
	endpoint := "/blocks/" + pathID(blockID) + "/children"
	if pageSize > 0 {
		params := url.Values{}
		params.Set("page_size", strconv.Itoa(pageSize))
		endpoint += "?" + params.Encode()
	}
	return c.requestList(ctx, http.MethodGet, endpoint, nil)
}

// AppendBlockChildren appends children in order and returns the created blocks.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []map[string]any) (*models.List, error) {
	reqBody := map[string]any{"children": children}
	return c.requestList(ctx, http.MethodPatch, "/blocks/"+pathID(blockID)+"/children", reqBody)
}

// UpdateBlock sends a typed payload such as {"paragraph": {...}}.
func (c *Client) UpdateBlock(ctx context.Context, blockID string, payload map[string]any) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodPatch, "/blocks/"+pathID(blockID), payload)
}

// DeleteBlock moves a block to the trash. Notion archives rather than destroys
// it, so the block can be restored.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) (json.RawMessage, error) {
	return c.requestRaw(ctx, http.MethodDelete, "/blocks/"+pathID(blockID), nil)
}

// Database API methods

type QueryParams struct {
	Filter      map[string]any   `json:"filter,omitempty"`
	Sorts       []map[string]any `json:"sorts,omitempty"`
	StartCursor string           `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

func (c *Client) QueryDatabase(ctx context.Context, databaseID string, params QueryParams) (*models.List, error) {
	return c.requestList(ctx, http.MethodPost, "/databases/"+pathID(databaseID)+"/query", params)
}
