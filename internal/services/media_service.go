package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/storage"
)

// uploadFolders are the folders editors may upload into.
var uploadFolders = map[string]bool{
	"uploads":       true,
	"blogs":         true,
	"courses":       true,
	"registrations": true,
	"videos":        true,
}

type mediaService struct {
	blobs  storage.BlobStore
	logger *slog.Logger
}

func NewMediaService(blobs storage.BlobStore, logger *slog.Logger) MediaService {
	return &mediaService{blobs: blobs, logger: logger}
}

func (s *mediaService) Upload(ctx context.Context, file *Upload, folder string) (string, error) {
	if file == nil || file.Size == 0 {
		return "", ErrMissingFile
	}

	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "uploads"
	}
	if !uploadFolders[folder] {
		return "", ValidationErrors{{Field: "folder", Message: "is not an upload folder", Value: folder, Rule: "oneof"}}
	}

	url, err := s.blobs.Upload(ctx, file.Reader, file.Size, file.Filename, folder, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Info("File uploaded", "folder", folder, "size", file.Size)
	return url, nil
}
