package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rkjewellers/billing-api/pkg/apperror"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return fieldName(field.Tag.Get("json"), field.Name)
	})
	return v
}

// IsValidMobile reports whether s is a ten digit mobile number
func IsValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// validateStruct runs the struct tags of v and converts failures into a
// validation AppError listing every offending field
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fieldErrors := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return apperror.NewValidationError(fieldErrors)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "mobile":
		return "must be a 10 digit mobile number"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	default:
		return "is invalid"
	}
}

func fieldName(jsonTag, goName string) string {
	name := strings.SplitN(jsonTag, ",", 2)[0]
	if name == "" || name == "-" {
		return goName
	}
	return name
}
