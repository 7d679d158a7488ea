package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound   = errors.New("domain: not found")
	ErrConflict   = errors.New("domain: conflict")
	ErrValidation = errors.New("domain: validation failed")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a *ValidationError for the given field.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ProjectInUseError is returned when a project still has tasks attached.
type ProjectInUseError struct {
	ProjectID int64
	TaskCount int
}

func (e *ProjectInUseError) Error() string {
	return fmt.Sprintf("project %d has %d task(s) attached; move or delete them first", e.ProjectID, e.TaskCount)
}

func (e *ProjectInUseError) Is(target error) bool {
	return target == ErrConflict
}
