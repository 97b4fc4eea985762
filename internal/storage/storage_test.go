package storage

import (
	"context"
	"strings"
	"testing"
)

func TestFileIDFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		bucket  string
		want    string
		wantErr bool
	}{
		{"minio url", "https://cdn.example.org/media/videos/abc-intro.mp4", "media", "videos/abc-intro.mp4", false},
		{"no bucket prefix", "http://localhost/videos/x.png", "", "videos/x.png", false},
		{"query ignored", "https://cdn.example.org/media/a.png?v=2", "media", "a.png", false},
		{"empty path", "https://cdn.example.org/", "media", "", true},
		{"bucket only", "https://cdn.example.org/media", "media", "", true},
		{"garbage", "://nope", "media", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileIDFromURL(tt.url, tt.bucket)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectName(t *testing.T) {
	got := objectName("id1", "/videos/", `C:\tmp\My Clip (1).mp4`)
	if got != "videos/id1-My-Clip-1.mp4" {
		t.Fatalf("objectName = %q", got)
	}
	if got := objectName("id2", "", ""); got != "id2-file" {
		t.Fatalf("objectName = %q", got)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore("http://local")
	ctx := context.Background()

	u, err := s.Upload(ctx, strings.NewReader("data"), 4, "a.txt", "docs", "text/plain")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	id, err := FileIDFromURL(u, "")
	if err != nil {
		t.Fatalf("FileIDFromURL: %v", err)
	}
	if !s.Has(id) {
		t.Fatalf("object %s not stored", id)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("object not removed")
	}
}
