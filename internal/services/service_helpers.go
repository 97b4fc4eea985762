package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/events"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// normalize applies the list defaults and returns the row offset.
func (q *PageQuery) normalize() (page, limit, offset int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// AllIDs merges both id keys, trimming blanks and duplicates while keeping order.
func (r *BulkDeleteRequest) AllIDs() []string {
	return mergeIDs(r.IDs, r.CourseIDs)
}

// AllIDs merges both id keys the same way BulkDeleteRequest does.
func (r *BulkEditRequest) AllIDs() []string {
	return mergeIDs(r.IDs, r.CourseIDs)
}

func mergeIDs(ids, legacy []string) []string {
	return normalizeIDs(append(append([]string{}, ids...), legacy...))
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// filterBulkUpdates keeps only allow-listed keys with a non-blank value and
// returns them keyed by column. Keys outside the allow-list are dropped
// silently.
func filterBulkUpdates(updates map[string]interface{}, allowed map[string]string) (map[string]interface{}, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	columns := make(map[string]interface{}, len(updates))
	for key, raw := range updates {
		column, ok := allowed[key]
		if !ok {
			continue
		}
		value, ok := bulkValue(raw)
		if !ok {
			continue
		}
		columns[column] = value
	}

	if len(columns) == 0 {
		return nil, ErrNoValidFields
	}
	return columns, nil
}

func bulkValue(raw interface{}) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case float64, bool, int, int64:
		s = fmt.Sprint(v)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

// publish sends an event; failures are logged and never returned.
func publish(ctx context.Context, logger *slog.Logger, publisher events.EventPublisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", "event_type", event.Type, "event_id", event.ID, "error", err)
	}
}
