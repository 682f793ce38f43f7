package parameters

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"
)

// Common parameter store errors
var (
	ErrInvalidPath      = errors.New("invalid parameter path")
	ErrStoreUnavailable = errors.New("parameter store unavailable")
	ErrAccessDenied     = errors.New("access denied")
	ErrThrottled        = errors.New("request throttled")
)

// ParameterError represents a parameter store operation error with additional context
type ParameterError struct {
	Op        string // Operation that failed
	Path      string // Parameter path involved in the operation
	Err       error  // Underlying error
	Retryable bool   // Whether the operation can be retried
}

func (e *ParameterError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parameters %s failed for path '%s': %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("parameters %s failed: %v", e.Op, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// NewParameterError creates a new ParameterError
func NewParameterError(op, path string, err error, retryable bool) *ParameterError {
	return &ParameterError{
		Op:        op,
		Path:      path,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable returns true if the error indicates a retryable condition
func IsRetryable(err error) bool {
	var paramErr *ParameterError
	if errors.As(err, &paramErr) {
		return paramErr.Retryable
	}
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrThrottled)
}

// classify wraps an SDK error, marking throttling and transient faults retryable
func classify(op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewParameterError(op, path, err, false)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyUpdates":
			return NewParameterError(op, path, fmt.Errorf("%w: %v", ErrThrottled, err), true)
		case "InternalServerError":
			return NewParameterError(op, path, fmt.Errorf("%w: %v", ErrStoreUnavailable, err), true)
		case "AccessDeniedException":
			return NewParameterError(op, path, fmt.Errorf("%w: %v", ErrAccessDenied, err), false)
		}
		return NewParameterError(op, path, err, apiErr.ErrorFault() == smithy.FaultServer)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewParameterError(op, path, fmt.Errorf("%w: %v", ErrStoreUnavailable, err), true)
	}

	return NewParameterError(op, path, err, false)
}
