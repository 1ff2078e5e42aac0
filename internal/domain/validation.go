package domain

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var productCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("productcode", validateProductCode)
	return &Validation{validator: v}
}

func validateProductCode(fl validator.FieldLevel) bool {
	// letters, digits, dots, dashes and underscores, e.g. HP-EB_840.G5
	return productCodeRe.MatchString(fl.Field().String())
}

// ValidationError wraps the validator's FieldError
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Messages flattens the errors for API responses
func (ve ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func (v *Validation) Validate(i interface{}) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}
	for _, ve := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   ve.Field(),
			Message: fmt.Sprintf("failed on the '%s' tag", ve.Tag()),
		})
	}

	return errs
}
