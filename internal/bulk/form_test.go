package bulk

import (
	"errors"
	"reflect"
	"testing"
)

func TestEditFormUpdates(t *testing.T) {
	empty := "   "
	fee := "15000"
	tests := []struct {
		name    string
		build   func(f *EditForm)
		want    map[string]interface{}
		wantErr error
	}{
		{
			name: "only flagged non-blank fields",
			build: func(f *EditForm) {
				f.Set("status", "Completed", true).
					Set("category", "Design", false).
					Set("duration", "", true)
			},
			want: map[string]interface{}{"status": "Completed"},
		},
		{
			name: "values are trimmed",
			build: func(f *EditForm) {
				f.Set("duration", "  6 months ", true)
			},
			want: map[string]interface{}{"duration": "6 months"},
		},
		{
			name: "string pointers",
			build: func(f *EditForm) {
				f.Set("totalFee", &fee, true).Set("category", &empty, true)
			},
			want: map[string]interface{}{"totalFee": &fee},
		},
		{
			name: "later Set replaces earlier",
			build: func(f *EditForm) {
				f.Set("status", "Ongoing", true).Set("status", "Upcoming", false)
			},
			wantErr: ErrNothingToUpdate,
		},
		{
			name:    "empty form",
			build:   func(f *EditForm) {},
			wantErr: ErrNothingToUpdate,
		},
		{
			name: "flagged but blank",
			build: func(f *EditForm) {
				f.Set("status", " ", true).Set("category", nil, true)
			},
			wantErr: ErrNothingToUpdate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &EditForm{}
			tt.build(f)
			got, err := f.Updates()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Updates() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Updates() = %v, want %v", got, tt.want)
			}
		})
	}
}
