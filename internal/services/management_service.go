package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

var staffConflictMessages = map[string]string{
	"email": "User with this email already exists",
	"name":  "User with this name already exists",
}

type managementService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewManagementService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ManagementService {
	return &managementService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
	}
}

// Register creates a staff account. The role is always EMPLOYEE; promotion
// goes through UpdateRole.
func (s *managementService) Register(ctx context.Context, req *RegisterStaffRequest) (*models.Staff, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	s.logger.Info("Registering staff", "name", req.Name, "email", req.Email)

	exists, err := s.repo.Staff().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, &ConflictError{Field: "email", Message: staffConflictMessages["email"]}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &models.Staff{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleEmployee,
	}
	if err := s.repo.Staff().Create(ctx, staff); err != nil {
		return nil, conflictFrom(err, staffConflictMessages)
	}

	s.logger.Info("Staff registered", "user_id", staff.ID)
	publish(ctx, s.logger, s.events, events.NewEvent(events.StaffRegistered, staff.ID, map[string]interface{}{
		"userId": staff.ID,
		"role":   staff.Role,
	}))

	return staff, nil
}

// List is admin only. The session claim is checked first; a non-admin claim
// falls back to the stored role so a promotion since login is honoured.
func (s *managementService) List(ctx context.Context, caller *auth.Identity, req *StaffListRequest) ([]*models.Staff, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	if !caller.IsAdmin() {
		admin, err := s.storedAdmin(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, NewPermissionError(caller.ID, "management", "list", "Only admins can fetch employees")
		}
	}

	filters := repositories.StaffFilters{}
	if req != nil {
		filters.Query = req.Query
		filters.Role = req.Role
	}

	staff, _, err := s.repo.Staff().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// UpdateRole changes another staff member's role. The acting admin is the
// session identity and is re-checked against the store; a stale or forged
// claim is not trusted. Concurrent updates are last write wins.
func (s *managementService) UpdateRole(ctx context.Context, caller *auth.Identity, req *UpdateRoleRequest) (*models.Staff, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.AdminID != "" && req.AdminID != caller.ID {
		return nil, ErrAdminMismatch
	}

	acting, err := s.repo.Staff().GetByID(ctx, caller.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActingUserNotFound
		}
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if acting.Role != models.RoleAdmin {
		return nil, NewPermissionError(caller.ID, "management", "update_role", "Unauthorized")
	}

	role := models.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))

	var updated *models.Staff
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Staff().GetByID(ctx, req.UserID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrStaffNotFound
			}
			return fmt.Errorf("failed to load target user: %w", err)
		}
		if req.UserID == caller.ID {
			return ErrSelfRoleChange
		}
		if err := s.validator.Var("role", string(role), "staff_role"); err != nil {
			return err
		}

		s.logger.Info("Updating staff role", "admin_id", caller.ID, "user_id", req.UserID, "role", role)

		var err error
		updated, err = tx.Staff().UpdateRole(ctx, req.UserID, role)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrStaffNotFound
			}
			return fmt.Errorf("failed to update role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.logger, s.events, events.NewEvent(events.StaffRoleChanged, caller.ID, map[string]interface{}{
		"userId": updated.ID,
		"role":   updated.Role,
	}))

	return updated, nil
}

// Delete removes a staff account. Only a stored ADMIN may delete, and never
// their own account.
func (s *managementService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	if caller == nil {
		return ErrUnauthorized
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return validator.ValidationErrors{{Field: "id", Message: "is required", Rule: "required"}}
	}

	admin, err := s.storedAdmin(ctx, caller.ID)
	if err != nil {
		return err
	}
	if !admin {
		return NewPermissionError(caller.ID, "management", "delete", "Only admins can delete staff")
	}
	if id == caller.ID {
		return ErrSelfDelete
	}

	if err := s.repo.Staff().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	s.logger.Info("Staff deleted", "admin_id", caller.ID, "user_id", id)
	publish(ctx, s.logger, s.events, events.NewEvent(events.StaffDeleted, caller.ID, map[string]interface{}{
		"userId": id,
	}))
	return nil
}

// storedAdmin reports whether the persisted record for id has the ADMIN role.
// A missing record is not an admin.
func (s *managementService) storedAdmin(ctx context.Context, id string) (bool, error) {
	staff, err := s.repo.Staff().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load caller: %w", err)
	}
	return staff.Role == models.RoleAdmin, nil
}
