// Package validation checks service inputs against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/yukikurage/taskboard/internal/errors"
)

var validate = newValidator()

// FieldError describes one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return IsLooseEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsLooseEmail accepts any string with an "@" followed somewhere by a ".".
// The domain itself is not checked.
func IsLooseEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// Struct validates s. Failures come back as a validation error whose Details
// is a []FieldError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	details := make([]FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Value: fmt.Sprint(fe.Value()),
		})
		names = append(names, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return apperrors.WithDetails(apperrors.ErrValidation, "invalid "+strings.Join(names, ", "), details)
}
