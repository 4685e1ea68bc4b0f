package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrInvalidProjectID reports a project id that is not a positive integer.
var ErrInvalidProjectID = errors.New("invalid project id")

// RequestError is returned by every client operation that fails, whether the
// backend was unreachable, answered with a non-2xx status, or sent a body
// that could not be decoded.
type RequestError struct {
	Op     string
	Method string
	URL    string
	// StatusCode is zero when no response was received.
	StatusCode int
	// Detail carries the backend's {"detail": ...} message when present.
	Detail string
	Err    error
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "api: " + e.Op
	if e.Method != "" || e.URL != "" {
		msg += ": " + e.Method + " " + e.URL
	}
	if e.StatusCode != 0 {
		msg += ": status " + strconv.Itoa(e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether err is a RequestError for a missing resource.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// ParseProjectID parses a project id taken from a navigable path. Anything
// other than a positive base-10 integer is rejected as not found, without
// contacting the backend.
func ParseProjectID(raw string) (int64, error) {
	invalid := &RequestError{
		Op:         "parse project id",
		StatusCode: http.StatusNotFound,
		Err:        fmt.Errorf("%w: %q", ErrInvalidProjectID, raw),
	}
	if raw == "" {
		return 0, invalid
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, invalid
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}
