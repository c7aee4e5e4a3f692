package constants

import (
	"errors"
	"net/http"
)

// CodedError несёт HTTP-код, который error handler отдаёт клиенту.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound       = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized     = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrForbidden        = NewCodedError("forbidden", http.StatusForbidden)
	ErrMissingAuthToken = NewCodedError("missing auth token", http.StatusUnauthorized)
	ErrBadRequest       = NewCodedError("bad request", http.StatusBadRequest)

	ErrInvalidToken = errors.New("invalid auth token")
)
