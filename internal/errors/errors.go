// Package errors provides unified error handling across promptpad.
//
// It standardizes error representation for the three surfaces the editor
// talks to: the remote completions endpoint, the local template store, and
// user input. Completion failures distinguish whether the endpoint rejected
// the request, the transport never delivered a response, or the request
// could not be built at all. Store failures are always recoverable values;
// they never crash the editing session.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Completion errors
	ErrCodeRemoteRejected ErrorCode = "REMOTE_REJECTED"
	ErrCodeNoResponse     ErrorCode = "NO_RESPONSE"
	ErrCodeRequestSetup   ErrorCode = "REQUEST_SETUP_FAILURE"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"

	// Input errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"

	// Catch-all
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryCompletion ErrorCategory = "completion"
	CategoryStorage    ErrorCategory = "storage"
	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "config"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Cause:     err,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeRemoteRejected, ErrCodeNoResponse, ErrCodeRequestSetup:
		return CategoryCompletion, SeverityError

	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeNotFound:
		return CategoryStorage, SeverityInfo

	case ErrCodeValidation, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning

	case ErrCodeMissingCredential:
		return CategoryConfig, SeverityCritical

	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable determines if an error is retryable based on its code
func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeNoResponse, ErrCodeStorageFailure:
		return true
	default:
		return false
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err is an AppError carrying the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Common error constructors for frequently used errors

func RemoteRejectedError(message string) *AppError {
	return NewAppError(ErrCodeRemoteRejected, message)
}

func NoResponseError(err error) *AppError {
	return Wrap(err, ErrCodeNoResponse, "No response from completion endpoint")
}

func RequestSetupError(err error) *AppError {
	return Wrap(err, ErrCodeRequestSetup, "Failed to build completion request")
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func MissingCredentialError() *AppError {
	return NewAppError(ErrCodeMissingCredential, "API credential is required (set PROMPTPAD_API_KEY or api_key in config)")
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
