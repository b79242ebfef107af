package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidPathSegment = errors.New("invalid path segment")
)

// FieldError is one entry of a validation failure list.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// APIError is a response outside the 2xx range. Body keeps the raw payload;
// Msg and Errors are filled when the body has the API's error shape
// ({"msg": ...} or {"errors": [...]}).
type APIError struct {
	Status int
	Body   []byte
	Msg    string
	Errors []FieldError
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}

	var payload struct {
		Msg    string       `json:"msg"`
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Msg = payload.Msg
		e.Errors = payload.Errors
	}
	return e
}

func (e *APIError) Error() string {
	if m := e.Message(); m != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, m)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Message is the generic message, or the first field error when there is none.
func (e *APIError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.FirstFieldError()
}

// FirstFieldError returns the message of the first validation error, if any.
func (e *APIError) FirstFieldError() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Msg
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
