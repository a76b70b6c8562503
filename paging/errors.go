package paging

import (
	"errors"
	"fmt"
)

// ErrorCode represents different types of simulator errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Configuration errors
	ErrCodeInvalidConfiguration
	ErrCodeUnknownPolicy

	// Trace errors
	ErrCodeTraceRead
	ErrCodeTraceParse
	ErrCodeUnsupportedFormat
)

// SimError represents a simulator error with context
type SimError struct {
	Code    ErrorCode
	Message string
	Op      string // Operation that failed
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a SimError with the same code
func (e *SimError) Is(target error) bool {
	if t, ok := target.(*SimError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewSimError creates a new simulator error
func NewSimError(code ErrorCode, op, message string, err error) *SimError {
	return &SimError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Helper functions for common errors

func ErrInvalidFrames(op string, frames int) *SimError {
	return NewSimError(
		ErrCodeInvalidConfiguration,
		op,
		fmt.Sprintf("frame count must be at least 1, got %d", frames),
		nil,
	)
}

func ErrInvalidPageSize(op string, pageSize uint64) *SimError {
	return NewSimError(
		ErrCodeInvalidConfiguration,
		op,
		fmt.Sprintf("page size must be at least 1, got %d", pageSize),
		nil,
	)
}

func ErrInvalidSweepRange(op string, minFrames, maxFrames int) *SimError {
	return NewSimError(
		ErrCodeInvalidConfiguration,
		op,
		fmt.Sprintf("invalid sweep range %d..%d", minFrames, maxFrames),
		nil,
	)
}

func ErrUnknownPolicy(op, name string) *SimError {
	return NewSimError(
		ErrCodeUnknownPolicy,
		op,
		fmt.Sprintf("unknown replacement policy %q (must be fifo, lru, optimal, lfu or clock)", name),
		nil,
	)
}

func ErrTraceParse(op string, entry int, token string) *SimError {
	return NewSimError(
		ErrCodeTraceParse,
		op,
		fmt.Sprintf("trace entry %d is not a non-negative integer: %q", entry, token),
		nil,
	)
}

func ErrTraceRead(op, path string, err error) *SimError {
	return NewSimError(
		ErrCodeTraceRead,
		op,
		fmt.Sprintf("cannot read trace %s", path),
		err,
	)
}

// IsErrorCode checks if an error chain carries a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var se *SimError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	var se *SimError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeUnknown
}
