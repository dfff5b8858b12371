package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(handler.ContextKeyRole, domain.RoleAdmin)

	called := false
	mw := RBAC(domain.RoleAdmin, domain.RoleUser)
	next := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := next(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for name, role := range map[string]any{
		"other role":  domain.RoleUser,
		"no role":     nil,
		"untyped str": "ADMIN",
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if role != nil {
				c.Set(handler.ContextKeyRole, role)
			}

			mw := RBAC(domain.RoleAdmin)
			next := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			if err := next(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
		})
	}
}
