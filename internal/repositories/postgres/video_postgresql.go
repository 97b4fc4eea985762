package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type VideoPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.Manager
}

func NewVideoPostgreSQL(db *gorm.DB, cacheManager *cache.Manager) repositories.VideoRepository {
	return &VideoPostgreSQL{db: db, cacheManager: cacheManager}
}

var videoSortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
}

func (r *VideoPostgreSQL) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return handleDBError(err, "create video")
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

func (r *VideoPostgreSQL) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, handleDBError(err, "get video by id")
	}
	return &video, nil
}

func (r *VideoPostgreSQL) List(ctx context.Context, filters repositories.VideoFilters) ([]*models.Video, int64, error) {
	var videos []*models.Video
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Video{})
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", likePattern(filters.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count videos")
	}

	query = applyPaginationAndSorting(query, videoSortColumns, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)
	if err := query.Find(&videos).Error; err != nil {
		return nil, 0, handleDBError(err, "list videos")
	}

	return videos, total, nil
}

func (r *VideoPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Video{})
	if err := notFoundIfNone(result, "delete video"); err != nil {
		return err
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

func (r *VideoPostgreSQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count videos")
	}
	return total, nil
}
