package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

func newTestServer(t *testing.T, status int, response string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return NewClient("secret_test", WithBaseURL(srv.URL+"/v1")), &requests
}

func TestClientHeaders(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"object":"page","id":"p1"}`)

	_, err := client.RetrievePage(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, *requests, 1)

	h := (*requests)[0].Header
	assert.Equal(t, "Bearer secret_test", h.Get("Authorization"))
	assert.Equal(t, DefaultNotionVersion, h.Get("Notion-Version"))
	assert.Empty(t, h.Get("Content-Type"), "GET requests carry no body")
}

func TestClientRoutes(t *testing.T) {
	archived := true
	testCases := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   string
	}{
		{
			name: "search",
			call: func(c *Client) error {
				_, err := c.Search(context.Background(), SearchParams{Query: "Roadmap", PageSize: 5})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v1/search",
			wantBody:   `{"query":"Roadmap","page_size":5}`,
		},
		{
			name: "search with filter",
			call: func(c *Client) error {
				_, err := c.Search(context.Background(), SearchParams{Filter: &SearchFilter{Value: "database", Property: "object"}})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v1/search",
			wantBody:   `{"filter":{"value":"database","property":"object"}}`,
		},
		{
			name: "create page",
			call: func(c *Client) error {
				_, err := c.CreatePage(context.Background(), CreatePageParams{
					Parent:     Parent{DatabaseID: "db1"},
					Properties: map[string]any{"Name": map[string]any{"title": []any{}}},
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v1/pages",
			wantBody:   `{"parent":{"database_id":"db1"},"properties":{"Name":{"title":[]}}}`,
		},
		{
			name: "archive page",
			call: func(c *Client) error {
				_, err := c.UpdatePage(context.Background(), "p1", UpdatePageParams{Archived: &archived})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/v1/pages/p1",
			wantBody:   `{"archived":true}`,
		},
		{
			name: "list children with page size",
			call: func(c *Client) error {
				_, err := c.ListBlockChildren(context.Background(), "b1", 10)
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/v1/blocks/b1/children",
			wantQuery:  "page_size=10",
		},
		{
			name: "append children",
			call: func(c *Client) error {
				_, err := c.AppendBlockChildren(context.Background(), "b1", []map[string]any{{"type": "divider", "divider": map[string]any{}}})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/v1/blocks/b1/children",
			wantBody:   `{"children":[{"type":"divider","divider":{}}]}`,
		},
		{
			name: "update block",
			call: func(c *Client) error {
				_, err := c.UpdateBlock(context.Background(), "b1", map[string]any{"paragraph": map[string]any{"rich_text": []any{}}})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/v1/blocks/b1",
			wantBody:   `{"paragraph":{"rich_text":[]}}`,
		},
		{
			name: "delete block",
			call: func(c *Client) error {
				_, err := c.DeleteBlock(context.Background(), "b1")
				return err
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/v1/blocks/b1",
		},
		{
			name: "query database",
			call: func(c *Client) error {
				_, err := c.QueryDatabase(context.Background(), "db1", QueryParams{StartCursor: "c1", PageSize: 2})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v1/databases/db1/query",
			wantBody:   `{"start_cursor":"c1","page_size":2}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, requests := newTestServer(t, http.StatusOK, `{"object":"list","results":[],"has_more":false}`)
			require.NoError(t, tc.call(client))
			require.Len(t, *requests, 1)

			got := (*requests)[0]
			assert.Equal(t, tc.wantMethod, got.Method)
			assert.Equal(t, tc.wantPath, got.Path)
			assert.Equal(t, tc.wantQuery, got.Query)
			if tc.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tc.wantBody, got.Body)
			}
		})
	}
}

func TestClientListKeepsRawBody(t *testing.T) {
	body := `{"object":"list","results":[{"object":"page","id":"p1"}],"has_more":true,"next_cursor":"n1","type":"page_or_database","page_or_database":{}}`
	client, _ := newTestServer(t, http.StatusOK, body)

	list, err := client.QueryDatabase(context.Background(), "db1", QueryParams{})
	require.NoError(t, err)
	assert.True(t, list.HasMore)
	assert.Len(t, list.Results, 1)
	assert.JSONEq(t, body, string(list.Raw))
}

func TestClientErrorPassthrough(t *testing.T) {
	client, _ := newTestServer(t, http.StatusNotFound,
		`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page with ID: p1."}`)

	_, err := client.RetrievePage(context.Background(), "p1")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find page with ID: p1.", apiErr.Message)
	assert.Contains(t, err.Error(), "object_not_found")
}

func TestClientErrorNonJSONBody(t *testing.T) {
	client, _ := newTestServer(t, http.StatusBadGateway, "upstream unavailable\n")

	_, err := client.RetrieveBlock(context.Background(), "b1")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestClientRejectsInvalidJSON(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, "not json")

	_, err := client.RetrievePage(context.Background(), "p1")
	require.Error(t, err)
}

func TestClientRawResponseUnchanged(t *testing.T) {
	body := `{"object":"block","id":"b1","archived":true,"type":"paragraph","paragraph":{"rich_text":[]}}`
	client, _ := newTestServer(t, http.StatusOK, body)

	raw, err := client.DeleteBlock(context.Background(), "b1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["archived"])
}
