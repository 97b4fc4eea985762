package services

import (
	"context"
	"io"
	"time"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/models"
)

// ===== SHARED DTOs =====

// Pagination is the page descriptor returned with every list.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type ListResult[T any] struct {
	Data       []*T       `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageQuery carries the common list query parameters.
type PageQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// BulkDeleteRequest accepts ids under "ids" or the older "courseIds" key.
type BulkDeleteRequest struct {
	IDs       []string `json:"ids"`
	CourseIDs []string `json:"courseIds"`
}

// BulkEditRequest takes the same id keys as BulkDeleteRequest.
type BulkEditRequest struct {
	IDs       []string               `json:"ids"`
	CourseIDs []string               `json:"courseIds"`
	Updates   map[string]interface{} `json:"updates"`
}

// ===== AUTH DTOs =====

type LoginRequest struct {
	Name     string `json:"name" validate:"required,not_blank"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Landing   string        `json:"landing"`
	User      *models.Staff `json:"user"`
}

// ===== MANAGEMENT DTOs =====

type RegisterStaffRequest struct {
	Name     string `json:"name" validate:"required,not_blank,max=255"`
	Email    string `json:"email" validate:"required,email_shape,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type StaffListRequest struct {
	Query string           `form:"search"`
	Role  *models.UserRole `form:"role"`
}

type UpdateRoleRequest struct {
	AdminID string `json:"adminId"`
	UserID  string `json:"userId" validate:"required"`
	Role    string `json:"role" validate:"required"`
}

// ===== COURSE DTOs =====

type CreateCourseRequest struct {
	Title            string `json:"title" validate:"required,not_blank,max=255"`
	TotalFee         string `json:"totalFee" validate:"max=100"`
	Duration         string `json:"duration" validate:"max=100"`
	ApprovedBy       string `json:"approvedBy" validate:"max=255"`
	Category         string `json:"category" validate:"max=100"`
	ShortDescription string `json:"shortDescription"`
	FullDescription  string `json:"fullDescription"`
	Status           string `json:"status" validate:"omitempty,course_status"`
	Image            string `json:"image" validate:"required,not_blank,max=1000"`
}

type UpdateCourseRequest struct {
	Title            *string `json:"title" validate:"omitempty,not_blank,max=255"`
	TotalFee         *string `json:"totalFee" validate:"omitempty,max=100"`
	Duration         *string `json:"duration" validate:"omitempty,max=100"`
	ApprovedBy       *string `json:"approvedBy" validate:"omitempty,max=255"`
	Category         *string `json:"category" validate:"omitempty,max=100"`
	ShortDescription *string `json:"shortDescription"`
	FullDescription  *string `json:"fullDescription"`
	Status           *string `json:"status" validate:"omitempty,course_status"`
	Image            *string `json:"image" validate:"omitempty,max=1000"`
}

type CourseListRequest struct {
	PageQuery
	Status   string `form:"status"`
	Category string `form:"category"`
}

// ===== BLOG DTOs =====

type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required,not_blank,max=255"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content" validate:"required,not_blank"`
	Image   string `json:"image" validate:"required,not_blank,max=1000"`
}

type UpdateBlogRequest struct {
	Title   *string `json:"title" validate:"omitempty,not_blank,max=255"`
	Excerpt *string `json:"excerpt"`
	Content *string `json:"content" validate:"omitempty,not_blank"`
	Image   *string `json:"image" validate:"omitempty,max=1000"`
}

// ===== VIDEO DTOs =====

// Upload is one file taken from a multipart form.
type Upload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

type CreateVideoRequest struct {
	Title       string  `json:"title" validate:"required,not_blank,max=255"`
	Description string  `json:"description"`
	Video       *Upload `json:"video"`
	Thumbnail   *Upload `json:"thumbnail"`
}

// ===== REGISTRATION DTOs =====

type CreateRegistrationRequest struct {
	Name          string   `json:"name" validate:"required,not_blank,max=255"`
	Email         *string  `json:"email" validate:"omitempty,email_shape,max=255"`
	PhoneNo       string   `json:"phoneNo" validate:"required,not_blank,max=20"`
	UserImg       string   `json:"userImg" validate:"max=1000"`
	FatherName    string   `json:"fatherName" validate:"required,not_blank,max=255"`
	MotherName    string   `json:"motherName" validate:"required,not_blank,max=255"`
	CourseName    string   `json:"courseName" validate:"required,not_blank,max=255"`
	AadharCardNo  string   `json:"aadharCardNo" validate:"required,not_blank,max=50"`
	AadharFront   string   `json:"aadharFront" validate:"required,not_blank,max=1000"`
	AadharBack    string   `json:"aadharBack" validate:"required,not_blank,max=1000"`
	Marksheets    []string `json:"marksheets" validate:"required,min=1,dive,not_blank"`
	Address       string   `json:"address" validate:"required,not_blank"`
	PaymentStatus string   `json:"paymentStatus" validate:"omitempty,payment_status"`
}

type UpdateRegistrationRequest struct {
	Name          *string   `json:"name" validate:"omitempty,not_blank,max=255"`
	Email         *string   `json:"email" validate:"omitempty,email_shape,max=255"`
	PhoneNo       *string   `json:"phoneNo" validate:"omitempty,not_blank,max=20"`
	UserImg       *string   `json:"userImg" validate:"omitempty,max=1000"`
	FatherName    *string   `json:"fatherName" validate:"omitempty,not_blank,max=255"`
	MotherName    *string   `json:"motherName" validate:"omitempty,not_blank,max=255"`
	CourseName    *string   `json:"courseName" validate:"omitempty,not_blank,max=255"`
	AadharCardNo  *string   `json:"aadharCardNo" validate:"omitempty,not_blank,max=50"`
	AadharFront   *string   `json:"aadharFront" validate:"omitempty,max=1000"`
	AadharBack    *string   `json:"aadharBack" validate:"omitempty,max=1000"`
	Marksheets    *[]string `json:"marksheets" validate:"omitempty,min=1,dive,not_blank"`
	Address       *string   `json:"address" validate:"omitempty,not_blank"`
	PaymentStatus *string   `json:"paymentStatus" validate:"omitempty,payment_status"`
}

type RegistrationListRequest struct {
	PageQuery
	PaymentStatus string `form:"paymentStatus"`
	CourseName    string `form:"courseName"`
	From          string `form:"from"`
	To            string `form:"to"`
}

// ===== DASHBOARD DTOs =====

type DashboardOverview struct {
	Staff                   int64            `json:"staff"`
	Courses                 int64            `json:"courses"`
	Blogs                   int64            `json:"blogs"`
	Videos                  int64            `json:"videos"`
	Registrations           int64            `json:"registrations"`
	RecentRegistrations     int64            `json:"recentRegistrations"`
	RegistrationsByPayment  map[string]int64 `json:"registrationsByPayment"`
	CoursesByStatus         map[string]int64 `json:"coursesByStatus"`
	RecentRegistrationsDays int              `json:"recentRegistrationsDays"`
}

// RoleDashboard describes the landing screen of one role.
type RoleDashboard struct {
	Role     models.UserRole `json:"role"`
	Path     string          `json:"path"`
	UserID   string          `json:"userId"`
	Sections []string        `json:"sections"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	VerifyCredentials(ctx context.Context, name, password string) (*models.Staff, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	VerifySession(token string) (*auth.Identity, error)
	SessionTTL() time.Duration
}

type ManagementService interface {
	Register(ctx context.Context, req *RegisterStaffRequest) (*models.Staff, error)
	List(ctx context.Context, caller *auth.Identity, req *StaffListRequest) ([]*models.Staff, error)
	UpdateRole(ctx context.Context, caller *auth.Identity, req *UpdateRoleRequest) (*models.Staff, error)
	Delete(ctx context.Context, caller *auth.Identity, id string) error
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, req *CourseListRequest) (*ListResult[models.Course], error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, actorID string, req *BulkDeleteRequest) (int64, error)
	BulkEdit(ctx context.Context, actorID string, req *BulkEditRequest) (int64, error)
}

type BlogService interface {
	Create(ctx context.Context, req *CreateBlogRequest) (*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, req *PageQuery) (*ListResult[models.Blog], error)
	Update(ctx context.Context, id string, req *UpdateBlogRequest) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}

type VideoService interface {
	Create(ctx context.Context, req *CreateVideoRequest) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, req *PageQuery) (*ListResult[models.Video], error)
	Delete(ctx context.Context, id string) error
}

type RegistrationService interface {
	Create(ctx context.Context, req *CreateRegistrationRequest) (*models.Registration, error)
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	List(ctx context.Context, req *RegistrationListRequest) (*ListResult[models.Registration], error)
	Update(ctx context.Context, id string, req *UpdateRegistrationRequest) (*models.Registration, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, actorID string, req *BulkDeleteRequest) (int64, error)
	BulkEdit(ctx context.Context, actorID string, req *BulkEditRequest) (int64, error)
	Export(ctx context.Context, req *RegistrationListRequest, w io.Writer) error
}

type MediaService interface {
	Upload(ctx context.Context, file *Upload, folder string) (string, error)
}

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
	ForRole(ctx context.Context, caller *auth.Identity, role models.UserRole) (*RoleDashboard, error)
}

// ServiceManager owns every service and their lifecycle.
type ServiceManager interface {
	Initialize(ctx context.Context) error
	Auth() AuthService
	Management() ManagementService
	Course() CourseService
	Blog() BlogService
	Video() VideoService
	Registration() RegistrationService
	Media() MediaService
	Dashboard() DashboardService
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
