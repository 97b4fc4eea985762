package repositories

import (
	"context"
	"time"

	"github.com/braiinybear/backoffice-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Search    string               `json:"search"`
	Status    *models.CourseStatus `json:"status"`
	Category  *string              `json:"category"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"` // "created_at", "title", "status"
	SortOrder string               `json:"sort_order"`
}

type BlogFilters struct {
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type VideoFilters struct {
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type RegistrationFilters struct {
	Search        string                `json:"search"` // name, course name or phone number
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	CourseName    *string               `json:"course_name"`
	DateFrom      *time.Time            `json:"date_from"`
	DateTo        *time.Time            `json:"date_to"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
	SortBy        string                `json:"sort_by"`
	SortOrder     string                `json:"sort_order"`
}

// ===== RESOURCE REPOSITORIES =====

// CourseRepository persists courses. UpdateMany and DeleteMany run as one
// statement each and report only the affected row count.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, filters BlogFilters) ([]*models.Blog, int64, error)
	Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, filters VideoFilters) ([]*models.Video, int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// RegistrationRepository persists applicants; phone number and Aadhaar
// number are unique and violations surface as *DuplicateError.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	List(ctx context.Context, filters RegistrationFilters) ([]*models.Registration, int64, error)
	Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Registration, error)
	Delete(ctx context.Context, id string) error
	UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
