package models

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Schemes accepted in URL fields.
var urlSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// dateRanged is implemented by kinds with a start and optional end date.
type dateRanged interface {
	DateRange() (start Date, end *Date)
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily initializes and returns a shared validator instance with custom rules.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their column/json name.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Validate Date as the underlying time so that required sees the zero value.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(Date); ok {
				return d.Time()
			}
			return nil
		}, Date{})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("web_url", validateWebURL)

		v.RegisterStructValidation(dateRangeStructValidation, Education{}, WorkExperience{}, Project{})

		validatorInst = v
	})
	return validatorInst
}

func validateWebURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return urlSchemes[strings.ToLower(u.Scheme)] && u.Host != ""
}

func dateRangeStructValidation(sl validator.StructLevel) {
	ranged, ok := sl.Current().Interface().(dateRanged)
	if !ok {
		return
	}

	start, end := ranged.DateRange()
	if end == nil || start.IsZero() {
		return
	}

	if end.Before(start) {
		sl.ReportError(*end, "end_date", "EndDate", "after_start", "start_date")
	}
}

// validateRecord validates a struct using go-playground/validator and maps errors into
// a ValidationError for consistent error handling.
func validateRecord(kind string, model interface{}) error {
	err := getValidator().Struct(model)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: %w", kind, err)
	}

	mapped := make([]FieldError, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		mapped = append(mapped, FieldError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Message: formatValidationMessage(fieldErr),
		})
	}
	return NewValidationError(kind, mapped...)
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "email":
		return "must be a valid email address"
	case "web_url":
		return "must be a valid http, https, ftp or ftps URL"
	case "after_start":
		return "must be on or after start_date"
	default:
		return err.Error()
	}
}
