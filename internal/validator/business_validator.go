package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/braiinybear/backoffice-service/internal/models"
)

// emailShape is the loose local@domain.tld check used for staff sign-up.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// registerBusinessRules registers custom business rule validators
func registerBusinessRules(validate *validator.Validate) {
	validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	validate.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})

	validate.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	validate.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		return models.CourseStatus(fl.Field().String()).IsValid()
	})

	validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).IsValid()
	})
}

// IsEmailShape reports whether s looks like an email address.
func IsEmailShape(s string) bool {
	return emailShape.MatchString(s)
}
