package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// Auth resolves the bearer token to a user and injects it into the context
// under handler.ContextKeyUser, with its role under handler.ContextKeyRole.
func Auth(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := authService.ResolveCurrentUser(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(handler.ContextKeyUser, user)
			c.Set(handler.ContextKeyRole, user.Role)

			return next(c)
		}
	}
}
