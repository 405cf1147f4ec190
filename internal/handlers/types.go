package handlers

import (
	"github.com/labstack/echo/v4"
)

// getStringFromContext reads an auth-populated context value safely
func getStringFromContext(c echo.Context, key string) string {
	if val := c.Get(key); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}
