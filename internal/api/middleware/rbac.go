package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/core/domain"
)

// RBAC admits requests whose authenticated role is one of allowedRoles.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.ContextKeyRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
