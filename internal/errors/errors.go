// Package errors provides centralized error definitions and error handling utilities
// for the logparser codebase. It defines domain-specific errors, error constructors
// with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - FilterError: a rejected filter edit (empty or duplicate pattern, unknown filter)
//   - SourceError: a text source that could not be read or written
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewFilterError("filter rejected", errors.ErrDuplicatePattern).WithPattern("ERROR")
//	err := errors.NewSourceError("read failed", cause).WithPath("/var/log/syslog")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrDuplicatePattern) { ... }
//
//	var filterErr *errors.FilterError
//	if errors.As(err, &filterErr) { ... }
//
//	if errors.IsUserFacing(err) { ... }
//
// # Error Classification
//
// Filter input errors are never fatal: the edit is a no-op and the caller
// may choose to tell the user. Source errors are reported to the user but
// leave the previously loaded text in place.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Filter-related sentinel errors
var (
	// ErrEmptyPattern indicates an empty or whitespace-only filter pattern.
	ErrEmptyPattern = New("filter pattern is empty")
	// ErrDuplicatePattern indicates the pattern already exists in the filter set.
	ErrDuplicatePattern = New("filter pattern already exists")
	// ErrFilterNotFound indicates that a filter id is not part of the filter set.
	ErrFilterNotFound = New("filter not found")
)

// Source-related sentinel errors
var (
	// ErrSourceUnavailable indicates that the text source could not be read.
	ErrSourceUnavailable = New("source unavailable")
	// ErrNoSource indicates that an operation needs a loaded source and none is loaded.
	ErrNoSource = New("no source loaded")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// LogParserError is the base interface for all logparser errors.
type LogParserError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// FilterError represents a rejected filter edit.
//
// Example:
//
//	err := errors.NewFilterError("filter rejected", errors.ErrDuplicatePattern).WithPattern("WARN")
//	fmt.Println(err) // "filter error [pattern="WARN"]: filter rejected: filter pattern already exists"
type FilterError struct {
	baseError
	Pattern  string
	FilterID uint64
}

// NewFilterError creates a new FilterError. Filter errors are warnings:
// the edit is dropped and nothing else changes.
func NewFilterError(message string, cause error) *FilterError {
	return &FilterError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithPattern adds the offending pattern to the error context.
func (e *FilterError) WithPattern(pattern string) *FilterError {
	e.Pattern = pattern
	return e
}

// WithFilterID adds the offending filter id to the error context.
func (e *FilterError) WithFilterID(id uint64) *FilterError {
	e.FilterID = id
	return e
}

// Error returns the formatted error message.
func (e *FilterError) Error() string {
	var parts []string
	if e.Pattern != "" {
		parts = append(parts, fmt.Sprintf("pattern=%q", e.Pattern))
	}
	if e.FilterID != 0 {
		parts = append(parts, fmt.Sprintf("id=%d", e.FilterID))
	}

	prefix := "filter error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("filter error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// SourceError represents a failure to read or write a text source, such as
// the loaded log file or a saved filter set.
type SourceError struct {
	baseError
	Path string
}

// NewSourceError creates a new SourceError. It matches ErrSourceUnavailable
// under errors.Is in addition to its cause.
func NewSourceError(message string, cause error) *SourceError {
	return &SourceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the source path to the error context.
func (e *SourceError) WithPath(path string) *SourceError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *SourceError) Error() string {
	prefix := "source error"
	if e.Path != "" {
		prefix = fmt.Sprintf("source error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a named resource does not exist.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found", resourceType),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds an underlying cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
	}
	return e.message
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to show in the UI
// as-is.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var lpErr LogParserError
	if As(err, &lpErr) {
		return lpErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of the error, defaulting to SeverityError
// for errors that don't carry one.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}

	var lpErr LogParserError
	if As(err, &lpErr) {
		return lpErr.Severity()
	}
	return SeverityError
}

// IsFilterInput reports whether err is a rejected filter edit.
func IsFilterInput(err error) bool {
	return Is(err, ErrEmptyPattern) || Is(err, ErrDuplicatePattern)
}

// Wrap wraps an error with additional context.
// Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
