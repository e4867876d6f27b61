package collection

import (
	"errors"
	"fmt"
)

// Sentinel errors. Returned errors wrap these so callers can use errors.Is.
var (
	// ErrIndexOutOfRange indicates an index outside [0, length).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvariantViolation indicates a derived collection diverged from its base.
	// It is raised as a panic, never returned.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrRebuildRequired indicates an operation with no positional replay.
	ErrRebuildRequired = errors.New("rebuild required")
)

// ErrorCode categorizes collection errors.
type ErrorCode string

const (
	// ErrCodeIndexOutOfRange indicates get/set/swap with an invalid index.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeInvariantViolation indicates a derived collection whose length
	// or content no longer matches its base outside an in-flight notification.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeRebuildRequired indicates ApplyTo was given a Reset.
	ErrCodeRebuildRequired ErrorCode = "REBUILD_REQUIRED"
)

// Error carries structured context for collection failures.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed ("get", "set", "swap", "insert", ...).
	Op string

	// Index is the offending index, when there is one.
	Index int

	// Len is the sequence length at the time of the failure.
	Len int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeIndexOutOfRange:
		return fmt.Sprintf("%s: %s: index %d, length %d", e.Code, e.Op, e.Index, e.Len)
	default:
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Is maps error codes onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case ErrCodeIndexOutOfRange:
		return target == ErrIndexOutOfRange
	case ErrCodeInvariantViolation:
		return target == ErrInvariantViolation
	case ErrCodeRebuildRequired:
		return target == ErrRebuildRequired
	}
	return false
}

// IsIndexOutOfRange reports whether err is an index-out-of-range error.
// Uses errors.Is to handle wrapped errors.
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}

// IsInvariantViolation reports whether err (or a recovered panic value) is an
// invariant violation.
func IsInvariantViolation(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	return errors.Is(err, ErrInvariantViolation)
}

func indexError(op string, index, length int) *Error {
	return &Error{
		Code:  ErrCodeIndexOutOfRange,
		Op:    op,
		Index: index,
		Len:   length,
	}
}

func invariantError(op string, message string) *Error {
	return &Error{
		Code:    ErrCodeInvariantViolation,
		Op:      op,
		Message: message,
	}
}
