package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is returned when the admin API rejects a call, either with a non-2xx
// status or with an explicit "success": false body.
type Error struct {
	StatusCode int
	Message    string
	Operation  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "request was not successful"
	}
	if e.Operation == "" {
		return fmt.Sprintf("admin API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: admin API error (status %d): %s", e.Operation, e.StatusCode, msg)
}

// IsNotFound reports whether err is an admin API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
