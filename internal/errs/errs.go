// Package errs defines the error taxonomy of the complaint lifecycle.
//
// Callers branch on the kind of failure rather than on messages:
//   - ValidationError: client input is missing or malformed, nothing was touched
//   - NotFoundError: the referenced complaint does not exist
//   - BusinessRuleError: the request is well formed but a rule forbids it
//   - DependencyError: an external collaborator (storage, push, database) failed
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or invalid input fields.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidationError creates a validation error naming the offending fields.
func NewValidationError(msg string, fields ...string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// NotFoundError reports an unknown resource identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for the given resource.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// BusinessRuleError carries a reason meant to be shown to the caller verbatim.
type BusinessRuleError struct {
	Reason string
}

func (e *BusinessRuleError) Error() string {
	return e.Reason
}

// NewBusinessRuleError creates a business rule violation.
func NewBusinessRuleError(reason string) *BusinessRuleError {
	return &BusinessRuleError{Reason: reason}
}

// DependencyError wraps a failure of an external collaborator.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the wrapped error for error chain inspection
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a collaborator failure during op.
func NewDependencyError(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

// IsValidation checks if the error chain contains a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound checks if the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsBusinessRule checks if the error chain contains a BusinessRuleError
func IsBusinessRule(err error) bool {
	var target *BusinessRuleError
	return errors.As(err, &target)
}

// IsDependency checks if the error chain contains a DependencyError
func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}
