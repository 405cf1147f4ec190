package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"qrnest_app_echo/internal/gateways"
	"qrnest_app_echo/internal/services"
)

// CustomErrorHandler maps settlement errors to API responses. Session-creation
// failures surface synchronously to the caller; nothing is queued for retry.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var misconfigured *gateways.MisconfiguredError
	var remote *gateways.RemoteError

	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, gateways.ErrNotConfigured):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &misconfigured):
		code = http.StatusBadRequest
		message = misconfigured.Error()
	case errors.Is(err, gateways.ErrInvalidCallback):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &remote):
		// The processor's own message rides along; no automatic retry
		code = http.StatusBadGateway
		message = remote.Error()
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			}
		}
	}

	c.Logger().Error(err)

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			c.Logger().Error(err)
		}
		return
	}

	if err := c.JSON(code, map[string]string{"error": message}); err != nil {
		c.Logger().Error(err)
	}
}
