// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package route

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// StatusCoder is implemented by errors that carry their own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error with an HTTP status and a client facing message.
// Errors built with Errorf or Wrap for a 5xx status record the stack of the
// goroutine that created them.
type HTTPError struct {
	Status  int
	Message string
	Err     error

	stack []byte
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// StatusCode implements StatusCoder.
func (e *HTTPError) StatusCode() int { return e.Status }

func (e *HTTPError) Unwrap() error { return e.Err }

// Stack returns the stack recorded when the error was created, or "".
func (e *HTTPError) Stack() string { return string(e.stack) }

func (e *HTTPError) withStack() *HTTPError {
	if e.Status >= http.StatusInternalServerError {
		e.stack = debug.Stack()
	}
	return e
}

// Errorf returns an HTTPError with a formatted message.
func Errorf(status int, format string, args ...any) *HTTPError {
	return (&HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}).withStack()
}

// NotFound returns a 404 HTTPError.
func NotFound(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

// BadRequest returns a 400 HTTPError.
func BadRequest(message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message}
}

// Wrap attaches status and message to err.
func Wrap(err error, status int, message string) *HTTPError {
	return (&HTTPError{Status: status, Message: message, Err: err}).withStack()
}
