package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"golang.org/x/oauth2"
)

// ErrMissingAccessToken is returned when no usable access token could be obtained
var ErrMissingAccessToken = errors.New("paypal: missing access token")

// APIError is a non-2xx answer from the PayPal REST API
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	DebugID    string `json:"debug_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.DebugID != "" {
		return fmt.Sprintf("paypal: %d %s: %s (debug_id %s)", e.StatusCode, e.Name, e.Message, e.DebugID)
	}
	return fmt.Sprintf("paypal: %d %s: %s", e.StatusCode, e.Name, e.Message)
}

// HTTPStatus returns the status PayPal answered with
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// newAPIError decodes a PayPal error body. Both the REST shape
// {name,message,debug_id} and the OAuth shape {error,error_description} are accepted.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var raw struct {
		Name             string `json:"name"`
		Message          string `json:"message"`
		DebugID          string `json:"debug_id"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(body, &raw) == nil {
		apiErr.Name = raw.Name
		apiErr.Message = raw.Message
		apiErr.DebugID = raw.DebugID
		if apiErr.Name == "" {
			apiErr.Name = raw.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = raw.ErrorDescription
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// Kind classifies transport failures
type Kind int

const (
	KindRequest Kind = iota
	KindTimeout
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	default:
		return "request"
	}
}

// RequestError is a failure to complete the HTTP exchange
type RequestError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("paypal %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure kind to the status reported to callers
func (e *RequestError) HTTPStatus() int {
	switch e.Kind {
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is a RequestError of the given kind
func IsKind(err error, kind Kind) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == kind
}

// IncompleteResponseError is a 2xx answer missing a field the caller needs
type IncompleteResponseError struct {
	Op    string
	Field string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("paypal %s: response is missing %s", e.Op, e.Field)
}

func classifyTransport(err error) Kind {
	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.As(err, &dnsErr):
		return KindConnection
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return KindConnection
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return KindConnection
	default:
		return KindRequest
	}
}

func transportError(op string, err error) error {
	return &RequestError{Op: op, Kind: classifyTransport(err), Err: err}
}

// tokenError maps failures from the token endpoint
func tokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		apiErr := &APIError{
			Name:    retrieveErr.ErrorCode,
			Message: retrieveErr.ErrorDescription,
		}
		if retrieveErr.Response != nil {
			apiErr.StatusCode = retrieveErr.Response.StatusCode
		}
		if apiErr.Message == "" {
			apiErr.Message = "Failed to get PayPal access token"
		}
		return apiErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return transportError("token", err)
	}

	return fmt.Errorf("%w: %v", ErrMissingAccessToken, err)
}
