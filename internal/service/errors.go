package service

import (
	"errors"
	"fmt"
)

// Common service errors. Store sentinels such as store.ErrBlogNotFound and
// store.ErrEmailExists pass through wrapped, so callers check them with errors.Is.
var (
	// ErrInvalidCredentials is returned when the email is unknown or the
	// password does not match. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingDependency is returned by constructors given a nil dependency.
	ErrMissingDependency = errors.New("missing dependency")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func missing(name string) error {
	return fmt.Errorf("%w: %s cannot be nil", ErrMissingDependency, name)
}
