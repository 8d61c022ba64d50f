package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthority rejects requests whose principal does not hold authority.
// Unauthenticated requests are rejected the same way.
func RequireAuthority(authority string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok || !p.HasAuthority(authority) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}
