package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

// fakeRegistry serves the list and bulk endpoints over an in-memory table.
type fakeRegistry struct {
	mu        sync.Mutex
	rows      []row
	calls     map[string]int
	lastIDs   []string
	lastEdits map[string]interface{}
	failBulk  bool
	token     string
}

func newFakeRegistry(ids ...string) *fakeRegistry {
	return &fakeRegistry{rows: rows(ids...), calls: make(map[string]int)}
}

func (f *fakeRegistry) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls["list"]++
		f.token = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"data":       f.rows,
			"pagination": Pagination{Page: 1, Limit: 10, Total: int64(len(f.rows)), TotalPages: 1},
		})
	})
	mux.HandleFunc("/api/users/bulk-delete", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls["bulk-delete"]++
		if f.failBulk {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "Internal server error"})
			return
		}
		var body struct {
			IDs []string `json:"ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastIDs = body.IDs

		var deleted int64
		kept := f.rows[:0]
		for _, existing := range f.rows {
			if contains(body.IDs, existing.ID) {
				deleted++
				continue
			}
			kept = append(kept, existing)
		}
		f.rows = kept
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deletedCount": deleted})
	})
	mux.HandleFunc("/api/users/bulk-edit", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls["bulk-edit"]++
		var body struct {
			IDs     []string               `json:"ids"`
			Updates map[string]interface{} `json:"updates"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastIDs, f.lastEdits = body.IDs, body.Updates

		var updated int64
		for i := range f.rows {
			if contains(body.IDs, f.rows[i].ID) {
				if name, ok := body.Updates["name"].(string); ok {
					f.rows[i].Name = name
				}
				updated++
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "updatedCount": updated})
	})
	return mux
}

// seen returns the call count for endpoint and the last request details.
func (f *fakeRegistry) seen(endpoint string) (int, []string, map[string]interface{}, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint], f.lastIDs, f.lastEdits, f.token
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func newTestClient(t *testing.T, reg *fakeRegistry) *Client[row] {
	t.Helper()
	srv := httptest.NewServer(reg.handler())
	t.Cleanup(srv.Close)
	return NewClient[row](ClientConfig{
		BaseURL:  srv.URL,
		Resource: "/api/users",
		Token:    "tok",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func always(answer bool) Confirmer {
	return ConfirmFunc(func(string, int) bool { return answer })
}

func TestClientList(t *testing.T) {
	reg := newFakeRegistry("a", "b", "c")
	c := newTestClient(t, reg)

	page, err := c.List(context.Background(), Query{Search: "x", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Data) != 3 || len(c.Rows) != 3 || c.Pagination.Total != 3 {
		t.Fatalf("page = %+v rows = %v", page, c.Rows)
	}
	if _, _, _, token := reg.seen("list"); token != "Bearer tok" {
		t.Fatalf("Authorization = %q", token)
	}
}

func TestClientBulkDeleteIsOptimistic(t *testing.T) {
	reg := newFakeRegistry("a", "b", "c")
	c := newTestClient(t, reg)
	ctx := context.Background()
	page, err := c.List(ctx, Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	sel := NewSelection[row]()
	sel.Add(c.Rows[0])
	sel.Add(c.Rows[2])
	// Selected on an earlier page and deleted elsewhere since.
	sel.Add(row{ID: "gone"})

	var prompted int
	confirm := ConfirmFunc(func(prompt string, n int) bool {
		prompted = n
		return true
	})
	n, err := c.BulkDelete(ctx, sel, confirm)
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if n != 2 || prompted != 3 {
		t.Fatalf("deleted %d, prompted for %d; want 2 and 3", n, prompted)
	}
	_, sentIDs, _, _ := reg.seen("bulk-delete")
	if !reflect.DeepEqual(sentIDs, []string{"a", "c", "gone"}) {
		t.Fatalf("server got ids %v", sentIDs)
	}
	if len(c.Rows) != 1 || c.Rows[0].ID != "b" {
		t.Fatalf("rows after delete = %v", c.Rows)
	}
	if sel.Len() != 0 {
		t.Fatalf("selection not cleared: %v", sel.IDs())
	}
	if got := []string{page.Data[0].ID, page.Data[1].ID, page.Data[2].ID}; !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("page returned by List was rewritten: %v", got)
	}
	if lists, _, _, _ := reg.seen("list"); lists != 1 {
		t.Fatalf("bulk delete refetched the page")
	}
}

func TestClientBulkDeleteRejections(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		confirm  Confirmer
		fail     bool
		wantErr  error
		wantAPI  bool
		wantCall bool
	}{
		{name: "empty selection", confirm: always(true), wantErr: ErrEmptySelection},
		{name: "declined", selected: []string{"a"}, confirm: always(false), wantErr: ErrNotConfirmed},
		{name: "no confirmer", selected: []string{"a"}, wantErr: ErrNotConfirmed},
		{name: "server failure", selected: []string{"a"}, confirm: always(true), fail: true, wantAPI: true, wantCall: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newFakeRegistry("a", "b")
			reg.failBulk = tt.fail
			c := newTestClient(t, reg)
			if _, err := c.List(context.Background(), Query{}); err != nil {
				t.Fatalf("List: %v", err)
			}
			sel := NewSelection[row]()
			sel.SelectAll(rows(tt.selected...))

			_, err := c.BulkDelete(context.Background(), sel, tt.confirm)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var apiErr *APIError
			if tt.wantAPI && (!errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError || apiErr.Message != "Internal server error") {
				t.Fatalf("error = %v, want APIError 500", err)
			}
			calls, _, _, _ := reg.seen("bulk-delete")
			if got := calls > 0; got != tt.wantCall {
				t.Fatalf("request sent = %v, want %v", got, tt.wantCall)
			}
			if len(c.Rows) != 2 || sel.Len() != len(tt.selected) {
				t.Fatalf("state changed on failure: rows %v selection %v", c.Rows, sel.IDs())
			}
		})
	}
}

func TestClientBulkEditRefetches(t *testing.T) {
	reg := newFakeRegistry("a", "b")
	c := newTestClient(t, reg)
	ctx := context.Background()
	if _, err := c.List(ctx, Query{Page: 1, Limit: 10}); err != nil {
		t.Fatalf("List: %v", err)
	}

	sel := NewSelection[row]()
	sel.Add(c.Rows[1])
	form := (&EditForm{}).Set("name", "Renamed", true).Set("status", "PAID", false)

	n, err := c.BulkEdit(ctx, sel, form)
	if err != nil {
		t.Fatalf("BulkEdit: %v", err)
	}
	if n != 1 {
		t.Fatalf("updated = %d", n)
	}
	_, _, edits, _ := reg.seen("bulk-edit")
	if !reflect.DeepEqual(edits, map[string]interface{}{"name": "Renamed"}) {
		t.Fatalf("server got updates %v", edits)
	}
	if lists, _, _, _ := reg.seen("list"); lists != 2 {
		t.Fatalf("list calls = %d, want a refetch", lists)
	}
	if c.Rows[1].Name != "Renamed" || sel.Len() != 0 {
		t.Fatalf("rows %v selection %v", c.Rows, sel.IDs())
	}
}

func TestClientBulkEditEmptyFormSendsNothing(t *testing.T) {
	reg := newFakeRegistry("a")
	c := newTestClient(t, reg)
	sel := NewSelection[row]()
	sel.SelectAll(rows("a"))

	form := (&EditForm{}).Set("name", "ignored", false)
	if _, err := c.BulkEdit(context.Background(), sel, form); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("error = %v, want ErrNothingToUpdate", err)
	}
	if edits, _, _, _ := reg.seen("bulk-edit"); edits != 0 || sel.Len() != 1 {
		t.Fatalf("empty form reached the server or cleared the selection")
	}
}

func TestNewClientLeavesDeadlinesToContext(t *testing.T) {
	c := NewClient[row](ClientConfig{BaseURL: "http://example.invalid", Resource: "/api/users"})
	if c.httpClient.Timeout != 0 {
		t.Fatalf("default http client timeout = %v, want none", c.httpClient.Timeout)
	}
	if c.endpoint != "http://example.invalid/api/users" {
		t.Fatalf("endpoint = %q", c.endpoint)
	}
}
