package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/internal/pkg/httperr"
)

var validate = validator.New()

// parseBody decodes the JSON request body into out and validates it,
// translating validator failures into the field-level error shape.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return httperr.MalformedBody
	}

	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return httperr.Validation(fieldMessages(validationErrors))
		}
		return httperr.MalformedBody
	}

	return nil
}

// fieldMessages converts validator errors into a field -> reason map.
func fieldMessages(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fieldError := range errs {
		fields[strings.ToLower(fieldError.Field())] = reasonFor(fieldError)
	}
	return fields
}

func reasonFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "must only contain letters and numbers"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldError.Param())
	default:
		return "is invalid"
	}
}
