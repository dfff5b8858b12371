package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/whitebox/contacts-service/docs"
	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/api/middleware"
	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth     ports.AuthService
	Contacts ports.ContactService
	Checks   map[string]handler.Pinger
	Logger   zerolog.Logger

	CORSOrigins []string
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// route is one entry of the /v1 routing table.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	auth    bool
}

func v1Routes(auth *handler.AuthHandler, contacts *handler.ContactHandler) []route {
	return []route{
		{http.MethodPost, "/auth/register", auth.Register, false},
		{http.MethodPost, "/auth/login", auth.Login, false},
		{http.MethodGet, "/auth/me", auth.Me, true},

		// Static segments are registered before /:id; Echo prefers them regardless.
		{http.MethodPost, "/contacts", contacts.Create, true},
		{http.MethodGet, "/contacts", contacts.List, true},
		{http.MethodGet, "/contacts/search", contacts.Search, true},
		{http.MethodGet, "/contacts/archived", contacts.Archived, true},
		{http.MethodGet, "/contacts/:id", contacts.Get, true},
		{http.MethodPut, "/contacts/:id", contacts.Update, true},
		{http.MethodDelete, "/contacts/:id", contacts.Remove, true},
		{http.MethodPatch, "/contacts/:id/activate", contacts.Activate, true},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	// --- API v1 ---
	v1 := e.Group("/v1")
	v1.GET("/docs/*", echoSwagger.WrapHandler)

	// Every recognised role may use the contact routes. The role gate still
	// refuses accounts whose stored role is anything else.
	authenticated := []echo.MiddlewareFunc{
		middleware.Auth(deps.Auth),
		middleware.RBAC(domain.RoleAdmin, domain.RoleUser),
	}
	routes := v1Routes(handler.NewAuthHandler(deps.Auth), handler.NewContactHandler(deps.Contacts))
	for _, r := range routes {
		var mws []echo.MiddlewareFunc
		if r.auth {
			mws = authenticated
		}
		v1.Add(r.method, r.path, r.handler, mws...)
	}

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var event *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				event = log.Warn()
			default:
				event = log.Info()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
