package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type BlogPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.Manager
}

func NewBlogPostgreSQL(db *gorm.DB, cacheManager *cache.Manager) repositories.BlogRepository {
	return &BlogPostgreSQL{db: db, cacheManager: cacheManager}
}

var blogSortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
}

func (r *BlogPostgreSQL) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return handleDBError(err, "create blog")
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

func (r *BlogPostgreSQL) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return r.getCached(ctx, "id:"+id, "id = ?", id)
}

func (r *BlogPostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return r.getCached(ctx, "slug:"+slug, "slug = ?", slug)
}

func (r *BlogPostgreSQL) getCached(ctx context.Context, key, where string, arg string) (*models.Blog, error) {
	return cache.Load(ctx, r.cacheManager.Blog, key, func() (*models.Blog, error) {
		var blog models.Blog
		if err := r.db.WithContext(ctx).Where(where, arg).First(&blog).Error; err != nil {
			return nil, handleDBError(err, "get blog")
		}
		return &blog, nil
	})
}

func (r *BlogPostgreSQL) List(ctx context.Context, filters repositories.BlogFilters) ([]*models.Blog, int64, error) {
	var blogs []*models.Blog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", likePattern(filters.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count blogs")
	}

	query = applyPaginationAndSorting(query, blogSortColumns, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)
	if err := query.Find(&blogs).Error; err != nil {
		return nil, 0, handleDBError(err, "list blogs")
	}

	return blogs, total, nil
}

func (r *BlogPostgreSQL) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Blog, error) {
	var existing models.Blog
	if err := r.db.WithContext(ctx).Select("id", "slug").Where("id = ?", id).First(&existing).Error; err != nil {
		return nil, handleDBError(err, "get blog for update")
	}

	if len(columns) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Updates(columns)
		if err := notFoundIfNone(result, "update blog"); err != nil {
			return nil, err
		}
		r.cacheManager.InvalidateBlog(ctx, id, existing.Slug)
	}
	return r.GetByID(ctx, id)
}

func (r *BlogPostgreSQL) Delete(ctx context.Context, id string) error {
	var existing models.Blog
	if err := r.db.WithContext(ctx).Select("id", "slug").Where("id = ?", id).First(&existing).Error; err != nil {
		return handleDBError(err, "get blog for delete")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if err := notFoundIfNone(result, "delete blog"); err != nil {
		return err
	}
	r.cacheManager.InvalidateBlog(ctx, id, existing.Slug)
	return nil
}

func (r *BlogPostgreSQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count blogs")
	}
	return total, nil
}
