package httpx

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/apperr"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success envelope with the given status code.
func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with an explicit status code.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: false, Error: msg})
}

// Error maps err to its HTTP status. Unexpected errors are logged with
// detail and answered with an opaque 500 so internals never leak.
func Error(c echo.Context, err error) error {
	if e, ok := apperr.From(err); ok {
		return Fail(c, e.Status(), e.Message)
	}
	log.Printf("internal error: %s %s: %v", c.Request().Method, c.Path(), err)
	return Fail(c, http.StatusInternalServerError, "Internal server error")
}
