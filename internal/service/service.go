package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/registra/records-api/pkg/errors"
)

var studentNumberPattern = regexp.MustCompile(`^[0-9][0-9-]*$`)

// NewValidator builds the shared validator with domain rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("student_number", func(fl validator.FieldLevel) bool {
		return studentNumberPattern.MatchString(fl.Field().String())
	})
	return v
}

// wrapRepo passes typed errors through untouched and wraps everything else as
// an internal failure. Repositories surface conflicts as typed errors and
// those must keep their status.
func wrapRepo(err error, message string) *appErrors.Error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseDate parses a YYYY-MM-DD payload field. Validation has already checked
// the shape, the error path covers direct service callers.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
