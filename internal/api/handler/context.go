package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// Context keys populated by middleware.Auth.
const (
	ContextKeyUser = "user"
	ContextKeyRole = "role"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was mounted without authentication.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(ContextKeyUser).(*domain.User)
	if user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
