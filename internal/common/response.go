package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	applog "bizledger/internal/log"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// PagedData wraps a page of results.
type PagedData struct {
	Data  any `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// SendSuccess writes data inside the response envelope
func SendSuccess(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Response{StatusCode: status, Data: data, Message: message})
}

// ErrorMessageKey is the echo context key holding the message of an error response.
const ErrorMessageKey = "error_message"

// SendError writes an error message inside the response envelope
func SendError(c echo.Context, status int, message string) error {
	c.Set(ErrorMessageKey, message)
	return c.JSON(status, Response{StatusCode: status, Data: nil, Message: message})
}

// SendServiceError maps a service error onto the envelope. Server-side
// failures are logged with their cause and answered generically.
func SendServiceError(c echo.Context, err error) error {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		applog.FromContext(c.Request().Context()).ErrorContext(c.Request().Context(), "request failed",
			applog.FieldPath, c.Path(),
			applog.FieldError, err.Error())
	}
	return SendError(c, status, message)
}

// HTTPErrorHandler renders echo errors (routing, auth, binding) in the envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = SendError(c, he.Code, message)
		return
	}

	_ = SendServiceError(c, err)
}
