package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/models"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name             string
		page, limit      int
		total            int64
		totalPages       int
		hasNext, hasPrev bool
	}{
		{"empty", 1, 10, 0, 0, false, false},
		{"single page", 1, 10, 10, 1, false, false},
		{"first of many", 1, 10, 25, 3, true, false},
		{"last page", 3, 10, 25, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.limit, tt.total)
			if got.TotalPages != tt.totalPages || got.HasNextPage != tt.hasNext || got.HasPrevPage != tt.hasPrev {
				t.Fatalf("NewPagination() = %+v", got)
			}
		})
	}
}

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		in                  PageQuery
		page, limit, offset int
	}{
		{PageQuery{}, 1, DefaultPageLimit, 0},
		{PageQuery{Page: 3, Limit: 20}, 3, 20, 40},
		{PageQuery{Page: -1, Limit: 1000}, 1, MaxPageLimit, 0},
	}
	for _, tt := range tests {
		page, limit, offset := tt.in.normalize()
		if page != tt.page || limit != tt.limit || offset != tt.offset {
			t.Fatalf("normalize(%+v) = %d,%d,%d", tt.in, page, limit, offset)
		}
	}
}

func TestNormalizeIDs(t *testing.T) {
	got := normalizeIDs([]string{" b ", "a", "", "b", "c", "a"})
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeIDs() = %v, want %v", got, want)
	}
}

func TestFilterBulkUpdates(t *testing.T) {
	got, err := filterBulkUpdates(map[string]interface{}{
		"totalFee": 15000.0,
		"duration": " 6 months ",
		"status":   "",
		"title":    "dropped",
		"category": []string{"not", "scalar"},
	}, models.CourseBulkFields)
	if err != nil {
		t.Fatalf("filterBulkUpdates() error = %v", err)
	}
	want := map[string]interface{}{"total_fee": "15000", "duration": "6 months"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterBulkUpdates() = %v, want %v", got, want)
	}

	if _, err := filterBulkUpdates(nil, models.CourseBulkFields); !errors.Is(err, ErrNoUpdates) {
		t.Fatalf("filterBulkUpdates(nil) error = %v", err)
	}
}

func TestPublishSwallowsErrors(t *testing.T) {
	pub := events.NewMockEventPublisher(testLogger())
	pub.FailWith(errors.New("broker down"))
	publish(context.Background(), testLogger(), pub, events.NewEvent(events.StaffDeleted, "a", nil))
	publish(context.Background(), testLogger(), nil, events.NewEvent(events.StaffDeleted, "a", nil))
}
