// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAlreadySubmitted  = errors.New("challenge already submitted")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDataNotFound      = errors.New("data not found")
	ErrDatabaseError     = errors.New("database error")
	ErrChallengeExpired  = errors.New("challenge expired")
)

// ComputationError represents a failure inside an indicator or pattern
// computation. Creation flows catch these and continue with the rest.
type ComputationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error [%s] %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// NewComputationError creates a new ComputationError.
func NewComputationError(component, operation string, err error) *ComputationError {
	return &ComputationError{
		Component: component,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ChallengeError represents an error related to challenge operations.
type ChallengeError struct {
	ChallengeID string
	Operation   string
	Reason      string
	Err         error
}

func (e *ChallengeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("challenge error [%s] %s: %s: %v", e.ChallengeID, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("challenge error [%s] %s: %s", e.ChallengeID, e.Operation, e.Reason)
}

func (e *ChallengeError) Unwrap() error {
	return e.Err
}

// NewChallengeError creates a new ChallengeError.
func NewChallengeError(challengeID, operation, reason string, err error) *ChallengeError {
	return &ChallengeError{
		ChallengeID: challengeID,
		Operation:   operation,
		Reason:      reason,
		Err:         err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Context  string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Context, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Context, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, context, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Context:  context,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
