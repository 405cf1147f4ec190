package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// RequireAuth returns a middleware that verifies Firebase session cookies,
// falling back to a Bearer ID token for API clients.
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if Firebase is initialized
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Authentication is not configured")
			}

			var token *auth.Token

			if cookie, err := c.Cookie("session"); err == nil && cookie.Value != "" {
				decoded, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
				if err != nil {
					// Invalid session, clear the cookie
					c.SetCookie(&http.Cookie{
						Name:     "session",
						Value:    "",
						MaxAge:   -1,
						HttpOnly: true,
						Path:     "/",
					})
					return echo.NewHTTPError(http.StatusUnauthorized, "Session expired, please log in again")
				}
				token = decoded
			} else if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				decoded, err := authClient.VerifyIDToken(c.Request().Context(), strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
				token = decoded
			} else {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			// Set user info in context for downstream handlers
			c.Set("userUID", token.UID)
			if email, ok := token.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
			if name, ok := token.Claims["name"].(string); ok {
				c.Set("userName", name)
			}

			return next(c)
		}
	}
}
