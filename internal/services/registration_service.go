package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

var registrationConflictMessages = map[string]string{
	"aadharCardNo": "A registration with this Aadhaar card number already exists",
	"phoneNo":      "A registration with this phone number already exists",
}

type registrationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
	metrics   *metrics.Metrics
}

func NewRegistrationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, m *metrics.Metrics) RegistrationService {
	return &registrationService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		metrics:   m,
	}
}

// Create stores a public intake submission. A repeated phone or Aadhaar
// number is a conflict; the existing record is never overwritten.
func (s *registrationService) Create(ctx context.Context, req *CreateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	marksheets := make([]string, 0, len(req.Marksheets))
	for _, m := range req.Marksheets {
		marksheets = append(marksheets, strings.TrimSpace(m))
	}

	reg := &models.Registration{
		Name:          strings.TrimSpace(req.Name),
		Email:         trimmed(req.Email),
		PhoneNo:       strings.TrimSpace(req.PhoneNo),
		UserImg:       strings.TrimSpace(req.UserImg),
		FatherName:    strings.TrimSpace(req.FatherName),
		MotherName:    strings.TrimSpace(req.MotherName),
		CourseName:    strings.TrimSpace(req.CourseName),
		AadharCardNo:  strings.TrimSpace(req.AadharCardNo),
		AadharFront:   strings.TrimSpace(req.AadharFront),
		AadharBack:    strings.TrimSpace(req.AadharBack),
		Marksheets:    datatypes.JSONSlice[string](marksheets),
		Address:       strings.TrimSpace(req.Address),
		PaymentStatus: models.PaymentPending,
	}
	if req.PaymentStatus != "" {
		reg.PaymentStatus = models.PaymentStatus(req.PaymentStatus)
	}

	if err := s.repo.Registration().Create(ctx, reg); err != nil {
		if repositories.IsDuplicateError(err) {
			s.logger.Info("Duplicate registration rejected", "error", err)
			return nil, conflictFrom(err, registrationConflictMessages)
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.Info("Registration created", "registration_id", reg.ID, "course_name", reg.CourseName)
	publish(ctx, s.logger, s.events, events.NewEvent(events.RegistrationCreated, "", map[string]interface{}{
		"registrationId": reg.ID,
		"courseName":     reg.CourseName,
	}))
	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.repo.Registration().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, req *RegistrationListRequest) (*ListResult[models.Registration], error) {
	page, limit, offset := req.normalize()

	filters, err := s.filters(req)
	if err != nil {
		return nil, err
	}
	filters.Limit = limit
	filters.Offset = offset

	regs, total, err := s.repo.Registration().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	return &ListResult[models.Registration]{Data: regs, Pagination: NewPagination(page, limit, total)}, nil
}

func (s *registrationService) filters(req *RegistrationListRequest) (repositories.RegistrationFilters, error) {
	filters := repositories.RegistrationFilters{Search: strings.TrimSpace(req.Search)}

	if req.PaymentStatus != "" {
		status := models.PaymentStatus(strings.ToUpper(req.PaymentStatus))
		if !status.IsValid() {
			return filters, ValidationErrors{{Field: "paymentStatus", Message: "must be one of PENDING, PAID, FAILED", Value: req.PaymentStatus, Rule: "payment_status"}}
		}
		filters.PaymentStatus = &status
	}
	if courseName := strings.TrimSpace(req.CourseName); courseName != "" {
		filters.CourseName = &courseName
	}

	from, err := parseDateBound(req.From, false)
	if err != nil {
		return filters, ValidationErrors{{Field: "from", Message: "must be a date (YYYY-MM-DD) or RFC 3339 time", Value: req.From, Rule: "date"}}
	}
	to, err := parseDateBound(req.To, true)
	if err != nil {
		return filters, ValidationErrors{{Field: "to", Message: "must be a date (YYYY-MM-DD) or RFC 3339 time", Value: req.To, Rule: "date"}}
	}
	filters.DateFrom, filters.DateTo = from, to
	return filters, nil
}

// parseDateBound accepts a calendar date or an RFC 3339 time. A calendar date
// used as an upper bound covers the whole day.
func parseDateBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (s *registrationService) Update(ctx context.Context, id string, req *UpdateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	columns := make(map[string]interface{})
	set := func(column string, v *string) {
		if v = trimmed(v); v != nil {
			columns[column] = *v
		}
	}
	set("name", req.Name)
	set("email", req.Email)
	set("phone_no", req.PhoneNo)
	set("user_img", req.UserImg)
	set("father_name", req.FatherName)
	set("mother_name", req.MotherName)
	set("course_name", req.CourseName)
	set("aadhar_card_no", req.AadharCardNo)
	set("aadhar_front", req.AadharFront)
	set("aadhar_back", req.AadharBack)
	set("address", req.Address)
	set("payment_status", req.PaymentStatus)
	if req.Marksheets != nil {
		columns["marksheets"] = datatypes.JSONSlice[string](*req.Marksheets)
	}

	reg, err := s.repo.Registration().Update(ctx, id, columns)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		if repositories.IsDuplicateError(err) {
			return nil, conflictFrom(err, registrationConflictMessages)
		}
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	s.logger.Info("Registration updated", "registration_id", id, "fields", len(columns))
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Registration().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	s.logger.Info("Registration deleted", "registration_id", id)
	return nil
}

// ===== BULK OPERATIONS =====

func (s *registrationService) BulkDelete(ctx context.Context, actorID string, req *BulkDeleteRequest) (int64, error) {
	ids := req.AllIDs()
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	deleted, err := s.repo.Registration().DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete registrations: %w", err)
	}

	s.logger.Info("Registrations bulk deleted", "actor_id", actorID, "requested", len(ids), "deleted", deleted)
	s.metrics.ObserveBulk("registration", "delete", deleted)
	publish(ctx, s.logger, s.events, events.NewEvent(events.RegistrationBulkDeleted, actorID, map[string]interface{}{
		"requested": len(ids),
		"deleted":   deleted,
	}))
	return deleted, nil
}

func (s *registrationService) BulkEdit(ctx context.Context, actorID string, req *BulkEditRequest) (int64, error) {
	ids := req.AllIDs()
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	columns, err := filterBulkUpdates(req.Updates, models.RegistrationBulkFields)
	if err != nil {
		return 0, err
	}
	if status, ok := columns["payment_status"].(string); ok {
		status = strings.ToUpper(status)
		columns["payment_status"] = status
		if err := s.validator.Var("paymentStatus", status, "payment_status"); err != nil {
			return 0, err
		}
	}

	updated, err := s.repo.Registration().UpdateMany(ctx, ids, columns)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update registrations: %w", err)
	}

	s.logger.Info("Registrations bulk updated", "actor_id", actorID, "requested", len(ids), "updated", updated)
	s.metrics.ObserveBulk("registration", "update", updated)
	publish(ctx, s.logger, s.events, events.NewEvent(events.RegistrationBulkUpdated, actorID, map[string]interface{}{
		"requested": len(ids),
		"updated":   updated,
		"fields":    columnNames(columns),
	}))
	return updated, nil
}
