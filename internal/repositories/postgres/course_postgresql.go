package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.Manager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.Manager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cacheManager: cacheManager}
}

var courseSortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"status":     "status",
	"category":   "category",
}

// ===== BASIC CRUD OPERATIONS =====

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

// GetByID retrieves a course by ID with caching
func (r *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	return cache.Load(ctx, r.cacheManager.Course, "id:"+id, func() (*models.Course, error) {
		var course models.Course
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
			return nil, handleDBError(err, "get course by id")
		}
		return &course, nil
	})
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Course{})
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", likePattern(filters.Search))
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSorting(query, courseSortColumns, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Course, error) {
	if len(columns) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(columns)
		if err := notFoundIfNone(result, "update course"); err != nil {
			return nil, err
		}
		r.cacheManager.InvalidateCourses(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if err := notFoundIfNone(result, "delete course"); err != nil {
		return err
	}
	r.cacheManager.InvalidateCourses(ctx, id)
	return nil
}

// ===== BULK OPERATIONS =====

// UpdateMany applies the same column set to every id in one statement.
// Ids that do not exist are not counted.
func (r *CoursePostgreSQL) UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(columns) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id IN ?", ids).Updates(columns)
	if result.Error != nil {
		return 0, handleDBError(result.Error, "bulk update courses")
	}
	r.cacheManager.InvalidateCourses(ctx, ids...)
	return result.RowsAffected, nil
}

// DeleteMany removes every matching id in one statement.
func (r *CoursePostgreSQL) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Course{})
	if result.Error != nil {
		return 0, handleDBError(result.Error, "bulk delete courses")
	}
	r.cacheManager.InvalidateCourses(ctx, ids...)
	return result.RowsAffected, nil
}

func (r *CoursePostgreSQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count courses")
	}
	return total, nil
}
