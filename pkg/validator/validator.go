package validator

import (
	"reflect"
	"strings"

	"clinic-booking/internal/domain/validation"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields under their json (or form) names and registers the "digits" tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return validation.IsDigits(fl.Field().String())
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FormatValidationErrors renders one message per field for the JSON API.
func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "digits":
				errors[field] = field + " must contain digits only"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

// FormErrors converts struct tag failures into field errors shown next to HTML form inputs.
// Errors that are not validator.ValidationErrors yield an empty set.
func (cv *CustomValidator) FormErrors(err error) validation.Errors {
	var errs validation.Errors

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs
	}
	for _, e := range validationErrors {
		field := e.Field()
		if errs.Has(field) {
			continue
		}
		switch e.Tag() {
		case "required":
			errs.Add(validation.Required(field))
		case "max":
			errs.Add(validation.NewFieldError(field, validation.ErrInvalidFormat,
				"Ensure this value has at most "+e.Param()+" characters."))
		default:
			errs.Add(validation.NewFieldError(field, validation.ErrInvalidFormat, "Enter a valid value."))
		}
	}

	return errs
}
