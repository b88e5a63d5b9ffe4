// Package errors provides the unified error type and factory functions for
// RxnFeasibility.  Every layer of the application (domain, encoding,
// feasibility, interfaces) uses AppError as the single carrier for structured
// error information, enabling consistent HTTP responses, logging, and
// monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout RxnFeasibility.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers of the application.
//
// Usage:
//
//	return errors.MalformedReaction("reaction has no product side")
//	return errors.Wrap(readErr, errors.ErrCodeCofactorFileInvalid, "failed to read cofactor file")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error, suitable
	// for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (the offending reaction string,
	// file path, species count, etc.) that aids debugging without leaking
	// internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError, enabling
	// errors.Is / errors.As traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output to keep
	// API error messages clean; the structured-logging middleware inspects the
	// field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain without additional boilerplate at call sites.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
// A call-stack snapshot is captured automatically.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code
// is preserved, preventing loss of the original domain classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.  It is the idiomatic way to check domain-specific failure modes:
//
//	if errors.IsCode(err, errors.ErrCodeMalformedReaction) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain.  If no *AppError is present, CodeUnknown is returned.
//
// This is useful in middleware / logging layers that need a single code to
// emit as a metric label without coupling to specific domain errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsMalformedReaction reports whether err's chain carries ErrCodeMalformedReaction.
func IsMalformedReaction(err error) bool { return IsCode(err, ErrCodeMalformedReaction) }

// IsTooManySpecies reports whether err's chain carries ErrCodeTooManySpecies.
func IsTooManySpecies(err error) bool { return IsCode(err, ErrCodeTooManySpecies) }

// IsUnsupportedFingerprintType reports whether err's chain carries
// ErrCodeFingerprintTypeUnsupported.
func IsUnsupportedFingerprintType(err error) bool {
	return IsCode(err, ErrCodeFingerprintTypeUnsupported)
}

// IsModelArtifactNotFound reports whether err's chain carries ErrCodeModelArtifactNotFound.
func IsModelArtifactNotFound(err error) bool { return IsCode(err, ErrCodeModelArtifactNotFound) }

// IsInvalidConfiguration reports whether err's chain carries ErrCodeInvalidConfiguration.
func IsInvalidConfiguration(err error) bool { return IsCode(err, ErrCodeInvalidConfiguration) }

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factory functions for the most common error conditions
// ─────────────────────────────────────────────────────────────────────────────

// MalformedReaction constructs an ErrCodeMalformedReaction AppError.
func MalformedReaction(message string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedReaction,
		Message: message,
		Stack:   captureStack(1),
	}
}

// TooManySpecies constructs an ErrCodeTooManySpecies AppError.
func TooManySpecies(message string) *AppError {
	return &AppError{
		Code:    ErrCodeTooManySpecies,
		Message: message,
		Stack:   captureStack(1),
	}
}

// UnsupportedFingerprintType constructs an ErrCodeFingerprintTypeUnsupported AppError.
func UnsupportedFingerprintType(message string) *AppError {
	return &AppError{
		Code:    ErrCodeFingerprintTypeUnsupported,
		Message: message,
		Stack:   captureStack(1),
	}
}

// ModelArtifactNotFound constructs an ErrCodeModelArtifactNotFound AppError.
func ModelArtifactNotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeModelArtifactNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidConfiguration constructs an ErrCodeInvalidConfiguration AppError.
func InvalidConfiguration(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfiguration,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidParam,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs a CodeInternal AppError.
// Use this for unexpected failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}
