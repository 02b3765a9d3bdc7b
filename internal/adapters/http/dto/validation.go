package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation marks a request body that decoded but broke a field rule.
	ErrValidation = errors.New("validation failed")

	// ErrBinding marks a request body that is not valid JSON for the target.
	ErrBinding = errors.New("binding failed")
)

// contentIDPattern matches ids that are safe as a single URL path segment.
var contentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("contentid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id == "" || contentIDPattern.MatchString(id)
	})

	_ = v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
})

// Validate checks the struct tags of a request.
func Validate(v any) error {
	if err := requestValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and checks it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors maps JSON field names to messages for the error envelope.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, fe := range errs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	return fields
}

// IsValidationError reports whether err carries field-level failures.
func IsValidationError(err error) bool {
	var errs validator.ValidationErrors
	return errors.As(err, &errs)
}

func validationMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notempty":
		return "must not be empty"
	case "contentid":
		return "may only contain letters, digits, '.', '-' and '_'"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "url":
		return "must be a valid URL"
	default:
		return "failed validation: " + fe.Tag()
	}
}
