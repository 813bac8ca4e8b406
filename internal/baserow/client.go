// Package baserow is a minimal client for the Baserow REST API.
//
// It covers the slice of the API this service needs: listing table rows
// with filters (following pagination until the server is exhausted),
// fetching a row by id, and patching changed fields back. All calls use
// user-facing column names (user_field_names=true), so the rest of the
// codebase never sees internal field ids.
package baserow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted Baserow endpoint.
const DefaultBaseURL = "https://api.baserow.io"

// pageSize is the rows-per-page requested when listing; 200 is the API maximum.
const pageSize = 200

// ErrNotFound is returned when the requested row or table does not exist.
var ErrNotFound = errors.New("baserow: not found")

// Client talks to a Baserow instance using a database token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a client for the given API base URL and database token.
// An empty baseURL selects the hosted service.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Table returns a handle for row operations on the given table id.
func (c *Client) Table(id int64) *Table {
	return &Table{client: c, id: id}
}

// Table is a handle to a single Baserow table.
type Table struct {
	client *Client
	id     int64
}

// ID returns the Baserow table id.
func (t *Table) ID() int64 { return t.id }

// listResponse is one page of the list-rows endpoint.
type listResponse struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// Rows fetches every row of the table, following pagination so callers
// always see the fully materialized table. Filters are ANDed together.
func (t *Table) Rows(ctx context.Context, filters ...Filter) ([]*Row, error) {
	q := url.Values{}
	q.Set("user_field_names", "true")
	q.Set("size", strconv.Itoa(pageSize))
	for _, f := range filters {
		q.Add(fmt.Sprintf("filter__%s__%s", f.Field, f.Op), f.Value)
	}

	next := fmt.Sprintf("%s/api/database/rows/table/%d/?%s", t.client.baseURL, t.id, q.Encode())

	var rows []*Row
	for next != "" {
		var page listResponse
		if err := t.client.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, fmt.Errorf("list rows of table %d: %w", t.id, err)
		}
		for _, raw := range page.Results {
			row, err := decodeRow(raw)
			if err != nil {
				return nil, fmt.Errorf("list rows of table %d: %w", t.id, err)
			}
			rows = append(rows, row)
		}
		if page.Next == nil {
			break
		}
		next = *page.Next
	}
	return rows, nil
}

// Get fetches a single row by id. Returns ErrNotFound for unknown ids.
func (t *Table) Get(ctx context.Context, rowID int64) (*Row, error) {
	u := fmt.Sprintf("%s/api/database/rows/table/%d/%d/?user_field_names=true", t.client.baseURL, t.id, rowID)
	var raw json.RawMessage
	if err := t.client.do(ctx, http.MethodGet, u, nil, &raw); err != nil {
		return nil, fmt.Errorf("get row %d of table %d: %w", rowID, t.id, err)
	}
	row, err := decodeRow(raw)
	if err != nil {
		return nil, fmt.Errorf("get row %d of table %d: %w", rowID, t.id, err)
	}
	return row, nil
}

// Update patches the row's staged changes. A row with no staged changes
// is a no-op. On success the staged set is cleared and the row's fields
// are refreshed from the server's response.
func (t *Table) Update(ctx context.Context, row *Row) error {
	if len(row.changes) == 0 {
		return nil
	}
	u := fmt.Sprintf("%s/api/database/rows/table/%d/%d/?user_field_names=true", t.client.baseURL, t.id, row.ID)
	var raw json.RawMessage
	if err := t.client.do(ctx, http.MethodPatch, u, row.changes, &raw); err != nil {
		return fmt.Errorf("update row %d of table %d: %w", row.ID, t.id, err)
	}
	updated, err := decodeRow(raw)
	if err != nil {
		return fmt.Errorf("update row %d of table %d: %w", row.ID, t.id, err)
	}
	row.fields = updated.fields
	row.changes = nil
	return nil
}

// do performs one API call. A non-nil body is sent as JSON; a non-nil
// out receives the decoded response. Non-2xx responses become errors
// carrying a snippet of the response body.
func (c *Client) do(ctx context.Context, method, rawurl string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call baserow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("baserow returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
