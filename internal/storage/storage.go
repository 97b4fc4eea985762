package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

// BlobStore holds uploaded media. Upload returns a public URL; the object key
// can be recovered from that URL with FileIDFromURL.
type BlobStore interface {
	Upload(ctx context.Context, data io.Reader, size int64, filename, folder, contentType string) (string, error)
	Delete(ctx context.Context, fileID string) error
}

var ErrInvalidFileURL = errors.New("invalid file url")

// FileIDFromURL returns the object key encoded in a URL produced by Upload:
// the path component after the bucket segment.
func FileIDFromURL(rawURL, bucket string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" || u.Path == "/" {
		return "", ErrInvalidFileURL
	}

	p := strings.TrimPrefix(path.Clean(u.Path), "/")
	if bucket != "" {
		p = strings.TrimPrefix(p, bucket+"/")
	}
	if p == "" || p == bucket {
		return "", ErrInvalidFileURL
	}
	return p, nil
}

// objectName builds "<folder>/<id>-<sanitised filename>".
func objectName(id, folder, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if name == "" || name == "." {
		name = "file"
	}

	folder = strings.Trim(folder, "/")
	if folder == "" {
		return id + "-" + name
	}
	return folder + "/" + id + "-" + name
}
