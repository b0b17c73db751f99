package purge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes purge failures.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the case instance to purge does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStorageFailure indicates a collaborator failed mid-purge.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
)

// PurgeError reports why a purge stopped.
//
// A NOT_FOUND error is raised before any mutation. A STORAGE_FAILURE may leave
// earlier steps applied; the caller's unit of work decides whether they stick.
type PurgeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Step is the step that failed. Empty for NOT_FOUND.
	Step Step

	// CaseInstanceIDs are the case instances being purged at the failing level.
	CaseInstanceIDs []string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PurgeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)

	var details []string
	if e.Step != "" {
		details = append(details, "step="+string(e.Step))
	}
	if len(e.CaseInstanceIDs) > 0 {
		details = append(details, "case_instance_ids="+strings.Join(e.CaseInstanceIDs, ","))
	}
	if len(details) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *PurgeError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is a NOT_FOUND purge error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var pe *PurgeError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeNotFound
	}
	return false
}

// IsStorageFailure returns true if err is a STORAGE_FAILURE purge error.
func IsStorageFailure(err error) bool {
	var pe *PurgeError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeStorageFailure
	}
	return false
}

// errorCode returns the code of err, or STORAGE_FAILURE for foreign errors.
func errorCode(err error) ErrorCode {
	var pe *PurgeError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeStorageFailure
}

func newNotFoundError(id string, cause error) *PurgeError {
	return &PurgeError{
		Code:            ErrCodeNotFound,
		Message:         fmt.Sprintf("case instance %q not found", id),
		CaseInstanceIDs: []string{id},
		Err:             cause,
	}
}

// newStorageError wraps cause unless it already is a PurgeError raised by a
// deeper level, which is passed through unchanged.
func newStorageError(step Step, ids []string, cause error) error {
	var pe *PurgeError
	if errors.As(cause, &pe) {
		return cause
	}
	return &PurgeError{
		Code:            ErrCodeStorageFailure,
		Message:         "purge step failed",
		Step:            step,
		CaseInstanceIDs: append([]string(nil), ids...),
		Err:             cause,
	}
}
