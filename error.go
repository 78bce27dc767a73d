package aemsearch

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL       = "internal"
	EINVALID        = "invalid"
	ENOTFOUND       = "not_found"
	ETIMEOUT        = "timeout"
	EFORBIDDEN      = "forbidden"
	EUNKNOWN        = "unknown"
	EEXHAUSTED      = "exhausted"
	ENOTIMPLEMENTED = "not_implemented"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("aemsearch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Repository errors map their kind onto the matching code and an exhausted
// search reports EEXHAUSTED. Non-application errors return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Kind.code()
	}
	var xe *ExhaustedError
	if errors.As(err, &xe) {
		return EEXHAUSTED
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return "Internal error.".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Error()
	}
	var xe *ExhaustedError
	if errors.As(err, &xe) {
		return xe.Error()
	}
	return "Internal error."
}
