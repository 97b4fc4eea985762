package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError is a unique-constraint violation; Field names the offending
// attribute in API terms when the constraint is recognised.
type DuplicateError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("duplicate value for %s", e.Field)
	}
	return "duplicate record"
}

func (e *DuplicateError) Unwrap() []error {
	return []error{ErrDuplicate, e.Err}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
