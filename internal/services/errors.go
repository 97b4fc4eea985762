package services

import (
	"errors"
	"fmt"

	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

// ValidationErrors is re-exported so handlers only depend on services.
type ValidationErrors = validator.ValidationErrors

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrConflict           = errors.New("conflict")

	ErrStaffNotFound        = errors.New("user not found")
	ErrActingUserNotFound   = errors.New("admin user not found")
	ErrAdminMismatch        = errors.New("admin id does not match the session")
	ErrSelfRoleChange       = errors.New("cannot change own role")
	ErrSelfDelete           = errors.New("cannot delete own account")
	ErrCourseNotFound       = errors.New("course not found")
	ErrBlogNotFound         = errors.New("blog not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	ErrNoIDs         = errors.New("no ids provided")
	ErrNoUpdates     = errors.New("no updates provided")
	ErrNoValidFields = errors.New("no valid fields to update")
	ErrMissingFile   = errors.New("file is required")
)

// PermissionError is returned when a verified caller lacks the role for an action.
type PermissionError struct {
	UserID   string `json:"userId"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s: %s", e.Action, e.Resource, e.Reason)
}

// ConflictError reports a unique-value collision with a field hint.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// conflictFrom converts a repository duplicate into a ConflictError. Other
// errors are returned unchanged.
func conflictFrom(err error, messages map[string]string) error {
	var dup *repositories.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}
	msg, ok := messages[dup.Field]
	if !ok {
		msg = "A record with these details already exists"
		if dup.Field != "" {
			msg = fmt.Sprintf("A record with this %s already exists", dup.Field)
		}
	}
	return &ConflictError{Field: dup.Field, Message: msg}
}
