package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrInvalidFlag   ErrorCode = "INVALID_FLAG"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Command shape errors
	ErrMissingGroup     ErrorCode = "MISSING_GROUP"
	ErrInvalidGroup     ErrorCode = "INVALID_GROUP"
	ErrMissingArguments ErrorCode = "MISSING_ARGUMENTS"

	// Entry errors
	ErrNotInstalled     ErrorCode = "NOT_INSTALLED"
	ErrUpstreamNotFound ErrorCode = "UPSTREAM_NOT_FOUND"
	ErrContentMissing   ErrorCode = "CONTENT_MISSING"

	// External command errors
	ErrExternalCommand ErrorCode = "EXTERNAL_COMMAND_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Store errors
	ErrRecordRead  ErrorCode = "RECORD_READ"
	ErrRecordWrite ErrorCode = "RECORD_WRITE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileCopy   ErrorCode = "FILE_COPY"
	ErrDirCreate  ErrorCode = "DIR_CREATE"

	// Query results: at least one looked-up name was not found
	ErrQueryMiss ErrorCode = "QUERY_MISS"
)

// DetailCount is the detail key carrying the number of misses of an
// ErrQueryMiss error. It doubles as the process exit status.
const DetailCount = "count"

// AlpsError represents a structured error with code and details
type AlpsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AlpsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AlpsError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AlpsError) Is(target error) bool {
	var targetErr *AlpsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AlpsError with the given code and message
func New(code ErrorCode, message string) *AlpsError {
	return &AlpsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AlpsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AlpsError {
	return &AlpsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AlpsError
func Wrap(err error, code ErrorCode, message string) *AlpsError {
	if err == nil {
		return nil
	}
	return &AlpsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AlpsError {
	if err == nil {
		return nil
	}
	return &AlpsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AlpsError) WithDetail(key string, value interface{}) *AlpsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var alpsErr *AlpsError
	if errors.As(err, &alpsErr) {
		return alpsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AlpsError
func GetErrorCode(err error) ErrorCode {
	var alpsErr *AlpsError
	if errors.As(err, &alpsErr) {
		return alpsErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AlpsError
func GetErrorDetails(err error) map[string]interface{} {
	var alpsErr *AlpsError
	if errors.As(err, &alpsErr) {
		return alpsErr.Details
	}
	return nil
}

// QueryMiss reports that count looked-up names were not found.
func QueryMiss(count int) *AlpsError {
	return Newf(ErrQueryMiss, "%d not found", count).WithDetail(DetailCount, count)
}

// MaxExitCode is the largest status a process can report.
const MaxExitCode = 255

// ExitCode maps an error to a process exit status. It is the only place
// where errors become exit codes. Miss counts above MaxExitCode are
// clamped so they never wrap to success.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var alpsErr *AlpsError
	if errors.As(err, &alpsErr) && alpsErr.Code == ErrQueryMiss {
		if n, ok := alpsErr.Details[DetailCount].(int); ok && n > 0 {
			return min(n, MaxExitCode)
		}
	}
	return 1
}

// Silent reports whether err has already been shown to the user and should
// not be printed again at the command boundary.
func Silent(err error) bool {
	return IsErrorCode(err, ErrQueryMiss)
}

// Message returns the message of the outermost AlpsError in err's chain,
// or err.Error() for foreign errors. It is what the user sees; the full
// chain goes to the log.
func Message(err error) string {
	var alpsErr *AlpsError
	if errors.As(err, &alpsErr) {
		return alpsErr.Message
	}
	return err.Error()
}
