package domain

import (
	"errors"
	"strings"
)

// Credential errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Contact errors.
var (
	ErrContactNotFound     = errors.New("contact not found")
	ErrContactExists       = errors.New("contact already exists")
	ErrContactArchived     = errors.New("contact was previously removed, activate it instead")
	ErrContactUserNotFound = errors.New("user to add as contact not found")
	ErrSelfContact         = errors.New("cannot add yourself as a contact")
)

// ErrValidation is the sentinel wrapped by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports malformed or out-of-range input. Problems holds one
// human readable message per offending field.
type ValidationError struct {
	Problems []string
}

// NewValidationError builds a ValidationError from the given problems.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
