package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeValidation     ErrorCode = "COMMON_004"
	ErrCodeSerialization  ErrorCode = "COMMON_005"
	ErrCodeNotImplemented ErrorCode = "COMMON_006"
	ErrCodeRateLimited    ErrorCode = "COMMON_007"
)

// Aliases used at call sites throughout the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Reaction Module Error Codes
const (
	// ErrCodeMalformedReaction is raised when a reaction string cannot be
	// split into exactly two non-empty sides under either supported grammar.
	ErrCodeMalformedReaction ErrorCode = "RXN_001"

	// ErrCodeTooManySpecies is raised when a reaction side exceeds the
	// configured species cap under a positional positioning policy.
	ErrCodeTooManySpecies ErrorCode = "RXN_002"

	// ErrCodeFingerprintTypeUnsupported is raised when the configured
	// fingerprint type names no supported fingerprinting method.
	ErrCodeFingerprintTypeUnsupported ErrorCode = "RXN_003"

	// ErrCodeInvalidSMILES is raised when a species identifier cannot be
	// fingerprinted at all (empty string, no atoms).
	ErrCodeInvalidSMILES ErrorCode = "RXN_004"

	// ErrCodeCofactorFileInvalid is raised when the cofactor reference file
	// is missing, unreadable, or lacks the required SMILES column.
	ErrCodeCofactorFileInvalid ErrorCode = "RXN_005"
)

// Model Module Error Codes
const (
	// ErrCodeModelArtifactNotFound is raised at construction time when the
	// configuration-resolved model or threshold file does not exist.
	ErrCodeModelArtifactNotFound ErrorCode = "MDL_001"

	// ErrCodeInvalidConfiguration is raised at construction time when the
	// configuration names an unrecognised model family, positioning policy,
	// or non-positive dimension.
	ErrCodeInvalidConfiguration ErrorCode = "MDL_002"

	// ErrCodeModelArtifactCorrupt is raised when an artifact file exists but
	// cannot be deserialised into a usable model or threshold.
	ErrCodeModelArtifactCorrupt ErrorCode = "MDL_003"

	// ErrCodeScoringFailed is raised when a loaded model rejects a feature
	// vector at prediction time.
	ErrCodeScoringFailed ErrorCode = "MDL_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeSerialization:  http.StatusInternalServerError,
	ErrCodeNotImplemented: http.StatusNotImplemented,
	ErrCodeRateLimited:    http.StatusTooManyRequests,

	ErrCodeMalformedReaction:          http.StatusBadRequest,
	ErrCodeTooManySpecies:             http.StatusBadRequest,
	ErrCodeFingerprintTypeUnsupported: http.StatusBadRequest,
	ErrCodeInvalidSMILES:              http.StatusBadRequest,
	ErrCodeCofactorFileInvalid:        http.StatusInternalServerError,

	ErrCodeModelArtifactNotFound: http.StatusInternalServerError,
	ErrCodeInvalidConfiguration:  http.StatusInternalServerError,
	ErrCodeModelArtifactCorrupt:  http.StatusInternalServerError,
	ErrCodeScoringFailed:         http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",
	ErrCodeRateLimited:    "rate limit exceeded",

	ErrCodeMalformedReaction:          "malformed reaction string",
	ErrCodeTooManySpecies:             "too many species on one reaction side",
	ErrCodeFingerprintTypeUnsupported: "unsupported fingerprint type",
	ErrCodeInvalidSMILES:              "invalid SMILES string",
	ErrCodeCofactorFileInvalid:        "invalid cofactor reference file",

	ErrCodeModelArtifactNotFound: "model artifact not found",
	ErrCodeInvalidConfiguration:  "invalid classifier configuration",
	ErrCodeModelArtifactCorrupt:  "model artifact corrupt",
	ErrCodeScoringFailed:         "model scoring failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode ("RXN", "MDL", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
