package bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrEmptySelection = errors.New("no records selected")
	ErrNotConfirmed   = errors.New("bulk delete was not confirmed")
)

// Confirmer asks the operator to acknowledge a destructive bulk action.
type Confirmer interface {
	Confirm(prompt string, count int) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string, count int) bool

func (f ConfirmFunc) Confirm(prompt string, count int) bool { return f(prompt, count) }

// DeletePrompt is the acknowledgement shown before a bulk delete.
func DeletePrompt(count int) string {
	return fmt.Sprintf("Delete %d record(s)? This cannot be undone.", count)
}

// APIError is a non-2xx reply from the back office.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Page is the list envelope of a registry.
type Page[T any] struct {
	Success    bool       `json:"success"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Query selects one page of a registry list. Filters carries extra query
// parameters such as paymentStatus.
type Query struct {
	Search  string
	Page    int
	Limit   int
	Filters map[string]string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

type ClientConfig struct {
	BaseURL    string
	Resource   string // e.g. "/api/courses"
	Token      string
	HTTPClient *http.Client // no timeout by default; bound calls with ctx
	Logger     *slog.Logger
}

// Client drives the list and bulk endpoints of one registry and keeps the
// rows of the page last fetched.
type Client[T Record] struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *slog.Logger

	Rows       []T
	Pagination Pagination
	query      Query
}

func NewClient[T Record](cfg ClientConfig) *Client[T] {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client[T]{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.Resource, "/"),
		token:      cfg.Token,
		logger:     logger,
	}
}

// List fetches one page and makes it the current view.
func (c *Client[T]) List(ctx context.Context, q Query) (*Page[T], error) {
	target := c.endpoint
	if enc := q.values().Encode(); enc != "" {
		target += "?" + enc
	}

	var page Page[T]
	if err := c.do(ctx, http.MethodGet, target, nil, &page); err != nil {
		return nil, err
	}

	c.Rows = page.Data
	c.Pagination = page.Pagination
	c.query = q
	return &page, nil
}

// BulkDelete deletes every selected record in one request once confirm has
// acknowledged the count. On success the submitted ids are dropped from Rows
// without a refetch and the selection is cleared; the server count may be
// lower than the number submitted. On failure Rows and the selection are left
// as they were so the action can be retried.
func (c *Client[T]) BulkDelete(ctx context.Context, sel *Selection[T], confirm Confirmer) (int64, error) {
	if sel.Len() == 0 {
		return 0, ErrEmptySelection
	}
	ids := sel.IDs()
	if confirm == nil || !confirm.Confirm(DeletePrompt(len(ids)), len(ids)) {
		return 0, ErrNotConfirmed
	}

	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint+"/bulk-delete", map[string]interface{}{"ids": ids}, &resp); err != nil {
		return 0, err
	}

	if resp.DeletedCount != int64(len(ids)) {
		c.logger.Warn("Bulk delete count differs from selection",
			"requested", len(ids), "deleted", resp.DeletedCount)
	}

	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
	}
	kept := make([]T, 0, len(c.Rows))
	for _, r := range c.Rows {
		if _, ok := removed[r.RecordID()]; !ok {
			kept = append(kept, r)
		}
	}
	c.Rows = kept
	sel.Clear()
	return resp.DeletedCount, nil
}

// BulkEdit applies the flagged fields of form to every selected record. An
// empty form is rejected before any request is sent. On success the selection
// is cleared and the current page is fetched again.
func (c *Client[T]) BulkEdit(ctx context.Context, sel *Selection[T], form *EditForm) (int64, error) {
	updates, err := form.Updates()
	if err != nil {
		return 0, err
	}
	if sel.Len() == 0 {
		return 0, ErrEmptySelection
	}

	var resp struct {
		UpdatedCount int64 `json:"updatedCount"`
	}
	body := map[string]interface{}{"ids": sel.IDs(), "updates": updates}
	if err := c.do(ctx, http.MethodPost, c.endpoint+"/bulk-edit", body, &resp); err != nil {
		return 0, err
	}

	sel.Clear()
	if _, err := c.List(ctx, c.query); err != nil {
		return resp.UpdatedCount, fmt.Errorf("refresh after bulk edit: %w", err)
	}
	return resp.UpdatedCount, nil
}

func (c *Client[T]) do(ctx context.Context, method, target string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &env) == nil {
			apiErr.Message = env.Message
		}
		c.logger.Error("Bulk request failed", "method", method, "url", target, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
