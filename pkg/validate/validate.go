// Package validate wraps go-playground/validator and libphonenumber behind the
// models.ErrInvalidArgument taxonomy.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"

	"github.com/young4chicks/brooder/internal/domain/models"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Struct validates the `validate` tags of s.
func Struct(s any) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidArgument, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Phone parses number for the default region and returns it in E.164 form.
func Phone(number, region string) (string, error) {
	parsed, err := libphonenumber.Parse(strings.TrimSpace(number), region)
	if err != nil {
		return "", fmt.Errorf("%w: phone number %q: %v", models.ErrInvalidArgument, number, err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return "", fmt.Errorf("%w: phone number %q is not valid", models.ErrInvalidArgument, number)
	}
	return libphonenumber.Format(parsed, libphonenumber.E164), nil
}
