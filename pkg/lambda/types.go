package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBody is returned when a request body is not valid JSON
var ErrInvalidBody = errors.New("invalid JSON in request body")

// Request represents a generic HTTP request that can be used by both Gin and Lambda
type Request struct {
	Method      string
	Path        string
	Headers     map[string]string
	QueryParams map[string]string
	PathParams  map[string]string
	Body        []byte
	RequestID   string
}

// Response represents a generic HTTP response
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// HandlerFunc handles a single request
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Header returns a header value, matching the name case-insensitively
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Query returns a query string parameter
func (r *Request) Query(name string) string {
	return r.QueryParams[name]
}

// Param returns a path parameter
func (r *Request) Param(name string) string {
	return r.PathParams[name]
}

// DecodeJSON unmarshals the body into v. An empty body leaves v untouched.
func (r *Request) DecodeJSON(v any) error {
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}
