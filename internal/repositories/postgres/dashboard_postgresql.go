package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

type dashboardRepository struct {
	db           *gorm.DB
	cacheManager *cache.Manager
	now          func() time.Time
}

func NewDashboardRepository(db *gorm.DB, cacheManager *cache.Manager) repositories.DashboardRepository {
	return &dashboardRepository{db: db, cacheManager: cacheManager, now: time.Now}
}

type groupCount struct {
	Key   string
	Count int64
}

// ===== DASHBOARD STATS =====

func (r *dashboardRepository) CountRegistrationsByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	return cache.Load(ctx, r.cacheManager.Stats, "registrations:by_payment", func() (map[string]int64, error) {
		return r.groupBy(ctx, &models.Registration{}, "payment_status")
	})
}

func (r *dashboardRepository) CountCoursesByStatus(ctx context.Context) (map[string]int64, error) {
	return cache.Load(ctx, r.cacheManager.Stats, "courses:by_status", func() (map[string]int64, error) {
		return r.groupBy(ctx, &models.Course{}, "status")
	})
}

func (r *dashboardRepository) CountRegistrationsSince(ctx context.Context, days int) (int64, error) {
	var count int64
	startDate := r.now().AddDate(0, 0, -days)

	if err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("created_at >= ?", startDate).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recent registrations: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) groupBy(ctx context.Context, model interface{}, column string) (map[string]int64, error) {
	var results []groupCount

	if err := r.db.WithContext(ctx).
		Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(results))
	for _, row := range results {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
