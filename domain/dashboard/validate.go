package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the package validator; field names in errors
// are the JSON names.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// check validates a request struct and turns the first failure into an
// ErrInvalidQuery with a readable message.
func check(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	fe := ve[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidQuery, field)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidQuery, field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Errorf("%w: %s must satisfy max=%s", ErrInvalidQuery, field, fe.Param())
	}
	return fmt.Errorf("%w: invalid %s", ErrInvalidQuery, field)
}
