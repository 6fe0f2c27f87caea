package validation

import (
	"github.com/go-playground/validator/v10"

	"paydash/internal/errors"
)

var validate = validator.New()

// ValidateStruct runs tag-based validation and wraps failures as a
// validation DomainError.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return errors.ErrInvalidPayment.WithCause(err)
	}
	return nil
}
