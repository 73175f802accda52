package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "GT"

var (
	cuiPattern              = regexp.MustCompile(`^\d{13}$`)
	expedienteNumberPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)
	clockPattern            = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	personNamePattern       = regexp.MustCompile(`^[\p{L}\s'.-]+$`)
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("cui", func(fl validator.FieldLevel) bool {
		return cuiPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("expediente_number", func(fl validator.FieldLevel) bool {
		return expedienteNumberPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// IsValidPhone reports whether s parses as a valid number, defaulting to
// DefaultPhoneRegion when no country code is present.
func IsValidPhone(s string) bool {
	num, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhone renders a valid phone number in E.164. Invalid input is
// returned trimmed and unchanged.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	num, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "required_if", "required_without":
				errors[field] = field + " is required in this context"
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
			case "cui":
				errors[field] = field + " must contain exactly 13 digits"
			case "expediente_number":
				errors[field] = field + " may only contain letters, digits, '-' and '_' (1-50 characters)"
			case "clock":
				errors[field] = field + " must be a time in HH:mm format"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "phone":
				errors[field] = field + " must be a valid phone number"
			case "personname":
				errors[field] = field + " may only contain letters and spaces"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
