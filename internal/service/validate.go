package service

import "nexus-pos/pkg/validator"

// validate runs struct tags and reports the first failure.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Field: errs[0].FailedField, Reason: validator.FirstMessage(errs)}
}
