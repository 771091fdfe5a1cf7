package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

var (
	ErrValidationFailed      = errors.New("validation failed")
	ErrDuplicateEmail        = errors.New("user already exists with this email")
	ErrNotFound              = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("please verify your email before logging in")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyVerified       = errors.New("email is already verified")
	ErrAccountLocked         = errors.New("account is temporarily locked due to too many failed login attempts")
	ErrDispatchFailed        = errors.New("failed to send email")
)

// ValidationError reports malformed input field by field. It matches
// ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields []validation.FieldError
}

// NewValidationError wraps the field errors produced by the validator.
func NewValidationError(fields []validation.FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}

	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// passwordError reports a secret rejected by the length bounds as a
// validation failure on field. Other errors are returned wrapped.
func passwordError(field string, err error) error {
	var msg string
	switch {
	case errors.Is(err, model.ErrPasswordTooShort):
		msg = fmt.Sprintf("%s must be at least %d characters", field, model.MinPasswordLength)
	case errors.Is(err, model.ErrPasswordTooLong):
		msg = fmt.Sprintf("%s must be at most %d bytes", field, model.MaxPasswordLength)
	default:
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return NewValidationError([]validation.FieldError{{Field: field, Message: msg}})
}

// blankName reports a name that is empty once trimmed.
func blankName(field string) *ValidationError {
	return NewValidationError([]validation.FieldError{{
		Field:   field,
		Message: field + " is a required field",
	}})
}
