package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/helpers/apperror"
)

// Validate is the shared validator; field paths use the json tag names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct tags and converts failures into
// apperror.Validation with one entry per field.
func ValidateStruct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.BadRequest("Invalid input")
	}
	fields := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apperror.FieldError{
			Path:    fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return apperror.Validation(fields)
}

// BindJSON parses the body into dst and validates it.
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return ValidateStruct(dst)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	// drop the root struct name
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return f + " must be at least " + fe.Param() + " characters"
		}
		return f + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return f + " must be at most " + fe.Param() + " characters"
		}
		return f + " must be at most " + fe.Param()
	case "gte":
		return f + " must be greater than or equal to " + fe.Param()
	case "gtefield":
		return f + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return f + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return f + " must be a valid URL"
	case "uuid", "uuid4":
		return f + " must be a valid id"
	default:
		return f + " is invalid"
	}
}
