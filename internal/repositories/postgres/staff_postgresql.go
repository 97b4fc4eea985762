package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type StaffPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.Manager
}

func NewStaffPostgreSQL(db *gorm.DB, cacheManager *cache.Manager) repositories.StaffRepository {
	return &StaffPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *StaffPostgreSQL) Create(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		return handleDBError(err, "create staff")
	}
	r.cacheManager.InvalidateStats(ctx)
	return nil
}

// GetByID is cached briefly; role changes and deletes evict it. The password
// column is never loaded here, so no cached copy carries the hash.
func (r *StaffPostgreSQL) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	return cache.Load(ctx, r.cacheManager.Staff, "id:"+id, func() (*models.Staff, error) {
		var staff models.Staff
		if err := r.db.WithContext(ctx).Omit("password").Where("id = ?", id).First(&staff).Error; err != nil {
			return nil, handleDBError(err, "get staff by id")
		}
		return &staff, nil
	})
}

func (r *StaffPostgreSQL) GetByName(ctx context.Context, name string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&staff).Error; err != nil {
		return nil, handleDBError(err, "get staff by name")
	}
	return &staff, nil
}

func (r *StaffPostgreSQL) List(ctx context.Context, filters repositories.StaffFilters) ([]*models.Staff, int64, error) {
	var staff []*models.Staff
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Staff{})
	if filters.Query != "" {
		pattern := likePattern(filters.Query)
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count staff")
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if err := query.Find(&staff).Error; err != nil {
		return nil, 0, handleDBError(err, "list staff")
	}

	return staff, total, nil
}

// UpdateRole persists role unconditionally; concurrent writers race and the last one wins.
func (r *StaffPostgreSQL) UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.Staff, error) {
	result := r.db.WithContext(ctx).Model(&models.Staff{}).Where("id = ?", id).Update("role", role)
	if err := notFoundIfNone(result, "update staff role"); err != nil {
		return nil, err
	}
	r.cacheManager.InvalidateStaff(ctx, id)

	var staff models.Staff
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, handleDBError(err, "reload staff")
	}
	return &staff, nil
}

func (r *StaffPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Staff{})
	if err := notFoundIfNone(result, "delete staff"); err != nil {
		return err
	}
	r.cacheManager.InvalidateStaff(ctx, id)
	return nil
}

func (r *StaffPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check staff email")
	}
	return count > 0, nil
}

func (r *StaffPostgreSQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Staff{}).Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count staff")
	}
	return total, nil
}
