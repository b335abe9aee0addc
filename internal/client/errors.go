package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors mapped from HTTP status codes. Callers branch with
// errors.Is; the wrapped *APIError carries the server-provided message.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")

	// ErrValidation marks a request rejected client-side before any network
	// call (required-field checks only; the server remains the validation
	// authority for everything deeper).
	ErrValidation = errors.New("validation failed")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error returns the server's message when present, a generic one otherwise.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
}

// Unwrap maps the status code onto the matching sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrServer
	default:
		return nil
	}
}

// errorBody covers both conventions the backend emits: the plain
// {"error": "..."} body and RFC 7807 problem details.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// decodeError turns a non-2xx response into an *APIError, preferring the
// server-provided message over a generic one.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var body errorBody
		if json.Unmarshal(data, &body) == nil {
			switch {
			case body.Error != "":
				apiErr.Message = body.Error
			case body.Detail != "":
				apiErr.Message = body.Detail
			case body.Title != "":
				apiErr.Message = body.Title
			}
		}
	}

	return apiErr
}
