package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/storage"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

const videoFolder = "videos"

type videoService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	blobs     storage.BlobStore
	bucket    string
}

func NewVideoService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, blobs storage.BlobStore, bucket string) VideoService {
	return &videoService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		blobs:     blobs,
		bucket:    bucket,
	}
}

// Create uploads the video and optional thumbnail, then stores the record.
// Uploaded blobs are removed again if the record cannot be saved.
func (s *videoService) Create(ctx context.Context, req *CreateVideoRequest) (*models.Video, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Video == nil || req.Video.Size == 0 {
		return nil, ErrMissingFile
	}

	title := strings.TrimSpace(req.Title)

	videoURL, err := s.blobs.Upload(ctx, req.Video.Reader, req.Video.Size, title+"-video"+extOr(req.Video.Filename, ".mp4"), videoFolder, req.Video.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	uploaded := []string{videoURL}

	var thumbURL string
	if req.Thumbnail != nil && req.Thumbnail.Size > 0 {
		thumbURL, err = s.blobs.Upload(ctx, req.Thumbnail.Reader, req.Thumbnail.Size, title+"-thumb"+extOr(req.Thumbnail.Filename, ".jpg"), videoFolder, req.Thumbnail.ContentType)
		if err != nil {
			s.removeBlobs(ctx, uploaded...)
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		uploaded = append(uploaded, thumbURL)
	}

	video := &models.Video{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		URL:         videoURL,
		Thumbnail:   thumbURL,
	}
	if err := s.repo.Video().Create(ctx, video); err != nil {
		s.removeBlobs(ctx, uploaded...)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.Info("Video created", "video_id", video.ID, "title", video.Title)
	return video, nil
}

func (s *videoService) GetByID(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.repo.Video().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (s *videoService) List(ctx context.Context, req *PageQuery) (*ListResult[models.Video], error) {
	page, limit, offset := req.normalize()

	videos, total, err := s.repo.Video().List(ctx, repositories.VideoFilters{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return &ListResult[models.Video]{Data: videos, Pagination: NewPagination(page, limit, total)}, nil
}

// Delete removes the stored blobs, then the record. Blob failures are logged
// and do not block the delete.
func (s *videoService) Delete(ctx context.Context, id string) error {
	video, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeBlobs(ctx, video.URL, video.Thumbnail)

	if err := s.repo.Video().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.logger.Info("Video deleted", "video_id", id)
	return nil
}

// removeBlobs deletes every URL concurrently and waits for all of them.
func (s *videoService) removeBlobs(ctx context.Context, urls ...string) {
	var g errgroup.Group
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		g.Go(func() error {
			fileID, err := storage.FileIDFromURL(u, s.bucket)
			if err != nil {
				s.logger.Warn("Skipping blob with unparseable url", "url", u)
				return nil
			}
			if err := s.blobs.Delete(ctx, fileID); err != nil {
				s.logger.Warn("Failed to delete blob", "file_id", fileID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func extOr(filename, fallback string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		return strings.ToLower(filename[i:])
	}
	return fallback
}
