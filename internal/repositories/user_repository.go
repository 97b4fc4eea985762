package repositories

import (
	"context"

	"github.com/braiinybear/backoffice-service/internal/models"
)

// StaffFilters defines filters for staff queries
type StaffFilters struct {
	Query  string // Search query for name or email
	Role   *models.UserRole
	Limit  int
	Offset int
}

// StaffRepository persists back-office accounts. Name and email are unique.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	GetByName(ctx context.Context, name string) (*models.Staff, error)
	List(ctx context.Context, filters StaffFilters) ([]*models.Staff, int64, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.Staff, error)
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
