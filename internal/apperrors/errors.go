package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category on the wire.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is a domain error carrying a wire code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Conflict(message string, err error) *Error {
	return &Error{Code: CodeConflict, Message: message, Err: err}
}

func RateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal for anything else.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}

func IsConflict(err error) bool {
	return err != nil && CodeOf(err) == CodeConflict
}

func IsValidation(err error) bool {
	return err != nil && CodeOf(err) == CodeValidation
}

// ErrorBody is the "error" object of an error response.
type ErrorBody struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// HTTPErrorResponse is the JSON envelope for every failed request.
type HTTPErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Response builds the envelope for err. Non-domain errors are reported as
// INTERNAL_ERROR with a generic message so store details do not leak.
func Response(err error, requestID string) (int, HTTPErrorResponse) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code.HTTPStatus(), HTTPErrorResponse{Error: ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		}}
	}
	return http.StatusInternalServerError, HTTPErrorResponse{Error: ErrorBody{
		Code:      CodeInternal,
		Message:   "internal server error",
		RequestID: requestID,
	}}
}
