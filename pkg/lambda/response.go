package lambda

import (
	"encoding/json"
	"net/http"
)

// CORS headers attached to every response
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType,omitempty"`
}

// MessageBody is the JSON shape of a bare success response
type MessageBody struct {
	Message string `json:"message"`
}

// NewHeaders returns the default response headers
func NewHeaders() map[string]string {
	headers := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	return headers
}

// JSON builds a response with body encoded as JSON and CORS headers set
func JSON(status int, body any) *Response {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"message":"An internal server error occurred","errorType":"InternalError"}`)
	}
	return &Response{
		StatusCode: status,
		Headers:    NewHeaders(),
		Body:       data,
	}
}

// Message builds a response whose body is {"message": msg}
func Message(status int, msg string) *Response {
	return JSON(status, MessageBody{Message: msg})
}

// Error builds an error response with an errorType tag
func Error(status int, errorType, msg string) *Response {
	return JSON(status, ErrorBody{Message: msg, ErrorType: errorType})
}

// InternalError is the generic 500 response
func InternalError() *Response {
	return Error(http.StatusInternalServerError, "InternalError", "An internal server error occurred")
}
