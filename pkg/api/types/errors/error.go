package errors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of error responses.
//
// echo's default HTTPErrorHandler writes *echo.HTTPError with string message in this shape.
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewError creates *echo.HTTPError with the message, caused by err.
//
// err is not sent to clients. It is logged by the HTTPErrorHandler.
func NewError(code int, message string, err error) *echo.HTTPError {
	herr := echo.NewHTTPError(code, message)
	if err != nil {
		herr = herr.SetInternal(err)
	}
	return herr
}

func BadRequest(message string, err error) *echo.HTTPError {
	if message == "" {
		message = "bad request"
	}
	return NewError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *echo.HTTPError {
	return NewError(http.StatusUnauthorized, message, err)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewError(http.StatusInternalServerError, "unexpected error", err)
}

// Upstream reports an error from an upstream service (cluster, log search, ...).
//
// The status code of the upstream is kept when it is an error status.
// Otherwise (including 0, "unknown"), it is 500 Internal Server Error.
func Upstream(status int, service string, err error) *echo.HTTPError {
	if status < 400 || 599 < status {
		status = http.StatusInternalServerError
	}
	msg := http.StatusText(status)
	if msg == "" {
		msg = "upstream error"
	}
	return NewError(status, fmt.Sprintf("%s: %s", service, msg), err)
}
