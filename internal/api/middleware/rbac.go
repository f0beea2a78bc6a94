package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// RequireRole lets a request through only when its resolved session holds
// one of roles with a token where the role needs one.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get(ContextSession).(domain.Session)
			if _, ok := allowed[session.Role]; !ok || session.Expired() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
