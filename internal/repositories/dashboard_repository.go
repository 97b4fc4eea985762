package repositories

import "context"

// DashboardRepository interface for dashboard aggregate queries
type DashboardRepository interface {
	CountRegistrationsByPaymentStatus(ctx context.Context) (map[string]int64, error)
	CountCoursesByStatus(ctx context.Context) (map[string]int64, error)
	CountRegistrationsSince(ctx context.Context, days int) (int64, error)
}
