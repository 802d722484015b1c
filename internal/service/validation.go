package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

// validationMessages provides human-readable validation error messages,
// mapping validator tags to user-friendly text
var validationMessages = map[string]string{
	"required": "This field is required",
	"gte":      "Must be greater than or equal to minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"gt":       "Must be greater than minimum value",
	"lt":       "Must be less than maximum value",
	"email":    "Must be a valid email address",
	"oneof":    "Must be one of the allowed values",
}

func validationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// checkStruct runs tag validation and translates the first failure into a
// domain.ValidationError carrying the offending field
func checkStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{Field: fe.Field(), Message: validationMessage(fe.Tag())}
	}
	return err
}
