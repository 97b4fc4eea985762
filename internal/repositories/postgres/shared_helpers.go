package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/repositories"
)

const uniqueViolation = "23505"

// constraintFields maps unique index names to API field names.
var constraintFields = map[string]string{
	"idx_management_name":              "name",
	"idx_management_email":             "email",
	"idx_registrations_phone_no":       "phoneNo",
	"idx_registrations_aadhar_card_no": "aadharCardNo",
	"idx_blogs_slug":                   "slug",
}

// columnFields maps unique column names to API field names, for constraints
// created outside the gorm schema.
var columnFields = map[string]string{
	"name":           "name",
	"email":          "email",
	"phone_no":       "phoneNo",
	"aadhar_card_no": "aadharCardNo",
	"slug":           "slug",
}

var detailKey = regexp.MustCompile(`Key \(([a-z_]+)\)=`)

// handleDBError is a package-level helper for handling database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &repositories.DuplicateError{
			Field:      duplicateField(pgErr),
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &repositories.DuplicateError{Err: err}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

func duplicateField(pgErr *pgconn.PgError) string {
	if f, ok := constraintFields[pgErr.ConstraintName]; ok {
		return f
	}
	if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		if f, ok := columnFields[m[1]]; ok {
			return f
		}
		return m[1]
	}
	return ""
}

// notFoundIfNone turns a zero-row single-record mutation into ErrNotFound.
func notFoundIfNone(result *gorm.DB, operation string) error {
	if result.Error != nil {
		return handleDBError(result.Error, operation)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	return nil
}

// likePattern builds a case-insensitive contains pattern with wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// applyPaginationAndSorting orders by a whitelisted column (newest first by
// default) and applies limit/offset.
func applyPaginationAndSorting(query *gorm.DB, sortable map[string]string, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	column, ok := sortable[sortBy]
	if !ok {
		column = "created_at"
	}

	order := "DESC"
	if sortOrder == "asc" || sortOrder == "ASC" {
		order = "ASC"
	}

	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
