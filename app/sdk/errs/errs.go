// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// The set of error codes in the system. InternalOnlyLog behaves like
// Internal on the wire but tells the error middleware to keep the real
// message out of the response.
var (
	OK                 = ErrCode{value: 0}
	InvalidArgument    = ErrCode{value: 3}
	NotFound           = ErrCode{value: 5}
	PermissionDenied   = ErrCode{value: 7}
	FailedPrecondition = ErrCode{value: 9}
	Aborted            = ErrCode{value: 10}
	Internal           = ErrCode{value: 13}
	Unauthenticated    = ErrCode{value: 16}
	InternalOnlyLog    = ErrCode{value: 17}
)

var codeNames = map[ErrCode]string{
	OK:                 "ok",
	InvalidArgument:    "invalid_argument",
	NotFound:           "not_found",
	PermissionDenied:   "permission_denied",
	FailedPrecondition: "failed_precondition",
	Aborted:            "aborted",
	Internal:           "internal",
	Unauthenticated:    "unauthenticated",
	InternalOnlyLog:    "internal",
}

var httpStatus = map[ErrCode]int{
	OK:                 http.StatusOK,
	InvalidArgument:    http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	PermissionDenied:   http.StatusForbidden,
	FailedPrecondition: http.StatusBadRequest,
	Aborted:            http.StatusConflict,
	Internal:           http.StatusInternalServerError,
	Unauthenticated:    http.StatusUnauthorized,
	InternalOnlyLog:    http.StatusInternalServerError,
}

// =============================================================================

// Error represents an error in the system.
type Error struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	return &Error{
		Code:    code,
		Message: err.Error(),
	}
}

// Errorf constructs an error based on an error format string.
func Errorf(code ErrCode, format string, v ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, v...),
	}
}

// NewFieldErrors constructs an invalid-argument error for a named field.
func NewFieldErrors(field string, err error) *Error {
	return &Error{
		Code:    InvalidArgument,
		Message: "data validation error",
		Fields: map[string]string{
			field: err.Error(),
		},
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the web.Encoder interface. The wire shape is the
// `{error}` document the deployed agents already parse, plus optional
// field details.
func (e *Error) Encode() ([]byte, string, error) {
	type response struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	}

	data, err := json.Marshal(response{
		Error:  e.Message,
		Fields: e.Fields,
	})

	return data, "application/json", err
}

// HTTPStatus implements the web httpStatus interface so the error is sent
// with the correct status code.
func (e *Error) HTTPStatus() int {
	return httpStatus[e.Code]
}

// IsError tests if the error is an app Error.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the app Error pointer from the error interface.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return &Error{}
	}
	return er
}
