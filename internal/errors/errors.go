// Package errors provides the typed errors shared by the contentkit commands.
// Callers match them with errors.Is / errors.As from the standard library.
package errors

import (
	"errors"
	"fmt"
)

// New is the standard library errors.New, re-exported for convenience.
var New = errors.New

var (
	// ErrNotFound indicates that a file, sheet or column does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed input or configuration.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFileSelected is returned by a file source when the user declined
	// to pick a file. Commands treat it as a clean exit.
	ErrNoFileSelected = errors.New("no file selected")
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
	// Available lists the alternatives that do exist, if known.
	Available []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Available) > 0 {
		return fmt.Sprintf("%s %q not found (available: %v)", e.Resource, e.ID, e.Available)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string, available ...string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Available: available}
}

// ValidationError represents a rejected configuration or input value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IOError wraps a failed file operation with the path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("could not %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
