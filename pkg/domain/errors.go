package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("not found")

// RequestError is the failure outcome of a remote call.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP/1.1 %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP/1.1 %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// StatusCode extracts the HTTP status of a failed request, 0 when err is not a RequestError.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// ErrorText is the user facing text of a failed remote call.
func ErrorText(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Error()
	}
	return err.Error()
}
