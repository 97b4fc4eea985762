package repositories

import "context"

// Repository is the data layer seen by the services. Each accessor returns a
// table-scoped repository sharing the same connection or transaction.
type Repository interface {
	Staff() StaffRepository
	Course() CourseRepository
	Blog() BlogRepository
	Video() VideoRepository
	Registration() RegistrationRepository
	Dashboard() DashboardRepository

	// WithTransaction runs fn against a Repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the connections behind a Repository.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
