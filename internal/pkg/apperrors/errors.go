package apperrors

import "errors"

// Authentication errors
var (
	// ErrUnauthenticated means no bearer credential was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUnauthorized means a credential was presented but failed verification.
	ErrUnauthorized       = errors.New("invalid or expired credential")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store errors
var (
	// ErrStoreUnavailable wraps every failure coming back from the database driver.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Program errors
var (
	ErrProgramNotFound   = errors.New("program not found")
	ErrProgramInactive   = errors.New("program is not active")
	ErrAlreadyRegistered = errors.New("student already registered for program")
)

// Notification errors
var (
	ErrInvalidNotificationType   = errors.New("invalid notification type")
	ErrInvalidNotificationAction = errors.New("invalid notification action")
)

// CustomError carries a user-facing message on top of one of the sentinels above
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError reports a failed input check with a readable message.
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// Is reports whether err matches target or any entry of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
