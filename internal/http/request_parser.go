// Package http provides HTTP server and handler implementations.
//
// This file implements request decoding and validation. Bodies are JSON
// documents decoded into small request types and checked with struct tags.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 64 << 10

type (
	// ReportRequest updates the report title and date. Absent fields are left alone.
	ReportRequest struct {
		Title *string `json:"title" validate:"omitempty,max=200"`
		Date  *string `json:"date" validate:"omitempty,max=32"`
	}

	// BranchRequest selects the active branch.
	BranchRequest struct {
		Branch string `json:"branch" validate:"required,max=100"`
	}

	// FieldRequest edits one row cell.
	FieldRequest struct {
		Field string `json:"field" validate:"required,oneof=date morning evening net deliveries"`
		Value string `json:"value" validate:"max=64"`
	}

	// ExpenseRequest edits one expense attribute.
	ExpenseRequest struct {
		Field string `json:"field" validate:"required,oneof=amount description"`
		Value string `json:"value" validate:"max=500"`
	}
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// RequestDecoder decodes and validates JSON request bodies.
type RequestDecoder struct {
	validate *validator.Validate
}

func NewRequestDecoder() *RequestDecoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &RequestDecoder{validate: v}
}

// Decode reads r's body into dst and validates it.
func (d *RequestDecoder) Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed request body: %w", err)
	}

	if err := d.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// parseID reads a uuid route parameter.
func parseID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
