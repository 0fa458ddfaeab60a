package webutil

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

const msgMissingFields = "Missing required fields"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequired checks the validate tags on a request struct and answers
// 400 "Missing required fields" on the first failure.
func ValidateRequired(req any) error {
	if err := validatorInstance().Struct(req); err != nil {
		return ErrValidationWrap(msgMissingFields, err)
	}
	return nil
}
