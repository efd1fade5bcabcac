// Package render provides JSON response and error-envelope helpers.
package render

import (
	"encoding/json"
	"net/http"
)

// ErrorDocument is the error response envelope.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// ErrorObject represents a single API error.
type ErrorObject struct {
	Status string       `json:"status,omitempty"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the request field an error refers to.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes a single-error envelope.
func Error(w http.ResponseWriter, status int, code, detail string) {
	Errors(w, status, []ErrorObject{
		{
			Status: http.StatusText(status),
			Code:   code,
			Title:  http.StatusText(status),
			Detail: detail,
		},
	})
}

// FieldError writes a validation error tied to one request body field.
func FieldError(w http.ResponseWriter, status int, code, detail, pointer string) {
	Errors(w, status, []ErrorObject{
		{
			Status: http.StatusText(status),
			Code:   code,
			Title:  http.StatusText(status),
			Detail: detail,
			Source: &ErrorSource{Pointer: pointer},
		},
	})
}

// Errors writes multiple errors in one envelope.
func Errors(w http.ResponseWriter, status int, errs []ErrorObject) {
	JSON(w, status, ErrorDocument{Errors: errs})
}
