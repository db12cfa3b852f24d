package model

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/text/unicode/norm"
)

// ValidationError is a rejected form. Message is shown to the operator as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Clean trims surrounding space and composes Devanagari into NFC so the same
// name typed on two keyboards compares equal.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func validate(v any) error {
	if _, err := govalidator.ValidateStruct(v); err != nil {
		return &ValidationError{Message: firstMessage(err)}
	}
	return nil
}

func firstMessage(err error) string {
	var errs govalidator.Errors
	if errors.As(err, &errs) && len(errs) > 0 {
		return firstMessage(errs[0])
	}
	var fieldErr govalidator.Error
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	return err.Error()
}
