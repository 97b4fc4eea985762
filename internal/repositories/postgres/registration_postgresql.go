package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.Manager
}

func NewRegistrationPostgreSQL(db *gorm.DB, cacheManager *cache.Manager) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{db: db, cacheManager: cacheManager}
}

var registrationSortColumns = map[string]string{
	"created_at":     "created_at",
	"name":           "name",
	"course_name":    "course_name",
	"payment_status": "payment_status",
}

// Create inserts an applicant. A repeated phone or Aadhaar number fails with
// *repositories.DuplicateError and leaves the existing row untouched.
func (r *RegistrationPostgreSQL) Create(ctx context.Context, reg *models.Registration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		return handleDBError(err, "create registration")
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		return nil, handleDBError(err, "get registration by id")
	}
	return &reg, nil
}

func (r *RegistrationPostgreSQL) List(ctx context.Context, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	var regs []*models.Registration
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Registration{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count registrations")
	}

	query = applyPaginationAndSorting(query, registrationSortColumns, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)
	if err := query.Find(&regs).Error; err != nil {
		return nil, 0, handleDBError(err, "list registrations")
	}

	return regs, total, nil
}

func (r *RegistrationPostgreSQL) applyFilters(query *gorm.DB, filters repositories.RegistrationFilters) *gorm.DB {
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("name ILIKE ? OR course_name ILIKE ? OR phone_no ILIKE ?", pattern, pattern, pattern)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.CourseName != nil {
		query = query.Where("course_name = ?", *filters.CourseName)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *RegistrationPostgreSQL) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Registration, error) {
	if len(columns) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Registration{}).Where("id = ?", id).Updates(columns)
		if err := notFoundIfNone(result, "update registration"); err != nil {
			return nil, err
		}
		r.cacheManager.InvalidateStats(ctx)
	}
	return r.GetByID(ctx, id)
}

func (r *RegistrationPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Registration{})
	if err := notFoundIfNone(result, "delete registration"); err != nil {
		return err
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

func (r *RegistrationPostgreSQL) UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(columns) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Registration{}).Where("id IN ?", ids).Updates(columns)
	if result.Error != nil {
		return 0, handleDBError(result.Error, "bulk update registrations")
	}
	r.cacheManager.InvalidateStats(ctx)
	return result.RowsAffected, nil
}

func (r *RegistrationPostgreSQL) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Registration{})
	if result.Error != nil {
		return 0, handleDBError(result.Error, "bulk delete registrations")
	}
	r.cacheManager.InvalidateStats(ctx)
	return result.RowsAffected, nil
}

func (r *RegistrationPostgreSQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Registration{}).Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count registrations")
	}
	return total, nil
}
