package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var (
	// ErrUnavailable means the server could not be reached.
	ErrUnavailable = errors.New("server unavailable")
	// ErrBadRequest is reported for rejected input (HTTP 400).
	ErrBadRequest = errors.New("bad request")
)

// Error is a non-2xx answer of the server. Message is the "error" field of
// the response body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return e.Message
}

// Unwrap maps the status code to the matching sentinel error.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadGateway:
		return common.ErrorConnection
	case http.StatusGatewayTimeout:
		return common.ErrorTimeout
	}
	return common.ErrorInternal
}
