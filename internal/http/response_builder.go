// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses.
// Every mutating endpoint answers with the session state and, when the
// operation produced one, a notice to display.

package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"shiftreport/internal/notice"
	"shiftreport/internal/session"
)

// Payload is the JSON body written by the API.
type Payload struct {
	State  *session.View     `json:"state,omitempty"`
	Notice *notice.Notice    `json:"notice,omitempty"`
	ID     *uuid.UUID        `json:"id,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    Payload
	raw        any
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// State attaches the session view.
func (b *ResponseBuilder) State(v session.View) *ResponseBuilder {
	b.payload.State = &v
	return b
}

// Notice attaches a user facing notice.
func (b *ResponseBuilder) Notice(n notice.Notice) *ResponseBuilder {
	b.payload.Notice = &n
	return b
}

// ID attaches the id of a created row or expense.
func (b *ResponseBuilder) ID(id uuid.UUID) *ResponseBuilder {
	b.payload.ID = &id
	return b
}

// Error sets the error message.
func (b *ResponseBuilder) Error(message string) *ResponseBuilder {
	b.payload.Error = message
	return b
}

// FieldErrors attaches per-field validation messages.
func (b *ResponseBuilder) FieldErrors(fields map[string]string) *ResponseBuilder {
	b.payload.Fields = fields
	return b
}

// JSON replaces the payload with an arbitrary value.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.raw = v
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(b.statusCode)

	var body any = b.payload
	if b.raw != nil {
		body = b.raw
	}
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).Error(message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// ConflictNotice answers a refused operation with its notice.
func ConflictNotice(n notice.Notice) *ResponseBuilder {
	return NewResponse().Status(http.StatusConflict).Notice(n)
}
