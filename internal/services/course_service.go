package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
	metrics   *metrics.Metrics
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, m *metrics.Metrics) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		metrics:   m,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:            strings.TrimSpace(req.Title),
		TotalFee:         strings.TrimSpace(req.TotalFee),
		Duration:         strings.TrimSpace(req.Duration),
		ApprovedBy:       strings.TrimSpace(req.ApprovedBy),
		Category:         strings.TrimSpace(req.Category),
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		FullDescription:  strings.TrimSpace(req.FullDescription),
		Status:           models.CourseOngoing,
		Image:            strings.TrimSpace(req.Image),
	}
	if req.Status != "" {
		course.Status = models.CourseStatus(req.Status)
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "title", course.Title)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, req *CourseListRequest) (*ListResult[models.Course], error) {
	page, limit, offset := req.normalize()

	filters := repositories.CourseFilters{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: offset,
	}
	if req.Status != "" {
		status := models.CourseStatus(req.Status)
		if !status.IsValid() {
			return nil, validator.ValidationErrors{{Field: "status", Message: "must be one of Ongoing, Upcoming, Completed", Value: req.Status, Rule: "course_status"}}
		}
		filters.Status = &status
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		filters.Category = &category
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &ListResult[models.Course]{Data: courses, Pagination: NewPagination(page, limit, total)}, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	columns := make(map[string]interface{})
	set := func(column string, v *string) {
		if v = trimmed(v); v != nil {
			columns[column] = *v
		}
	}
	set("title", req.Title)
	set("total_fee", req.TotalFee)
	set("duration", req.Duration)
	set("approved_by", req.ApprovedBy)
	set("category", req.Category)
	set("short_description", req.ShortDescription)
	set("full_description", req.FullDescription)
	set("status", req.Status)
	set("image", req.Image)

	course, err := s.repo.Course().Update(ctx, id, columns)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", id, "fields", len(columns))
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Course().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

// ===== BULK OPERATIONS =====

// BulkDelete removes every listed course in one statement and reports the
// store's count, which may be lower than the number of ids.
func (s *courseService) BulkDelete(ctx context.Context, actorID string, req *BulkDeleteRequest) (int64, error) {
	ids := req.AllIDs()
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	deleted, err := s.repo.Course().DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete courses: %w", err)
	}

	s.logger.Info("Courses bulk deleted", "actor_id", actorID, "requested", len(ids), "deleted", deleted)
	s.metrics.ObserveBulk("course", "delete", deleted)
	publish(ctx, s.logger, s.events, events.NewEvent(events.CourseBulkDeleted, actorID, map[string]interface{}{
		"requested": len(ids),
		"deleted":   deleted,
	}))
	return deleted, nil
}

// BulkEdit applies the allow-listed subset of updates to every id.
func (s *courseService) BulkEdit(ctx context.Context, actorID string, req *BulkEditRequest) (int64, error) {
	ids := req.AllIDs()
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	columns, err := filterBulkUpdates(req.Updates, models.CourseBulkFields)
	if err != nil {
		return 0, err
	}
	if status, ok := columns["status"]; ok {
		if err := s.validator.Var("status", status, "course_status"); err != nil {
			return 0, err
		}
	}

	updated, err := s.repo.Course().UpdateMany(ctx, ids, columns)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update courses: %w", err)
	}

	s.logger.Info("Courses bulk updated", "actor_id", actorID, "requested", len(ids), "updated", updated)
	s.metrics.ObserveBulk("course", "update", updated)
	publish(ctx, s.logger, s.events, events.NewEvent(events.CourseBulkUpdated, actorID, map[string]interface{}{
		"requested": len(ids),
		"updated":   updated,
		"fields":    columnNames(columns),
	}))
	return updated, nil
}

func columnNames(columns map[string]interface{}) []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
