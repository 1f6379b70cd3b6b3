package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/eventsphere/campus-events/internal/api/handler"
	"github.com/eventsphere/campus-events/internal/api/middleware"
	"github.com/eventsphere/campus-events/internal/core/ports"
	"github.com/eventsphere/campus-events/internal/core/service"
	"github.com/eventsphere/campus-events/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Services are built in main.
type Deps struct {
	Log          zerolog.Logger
	Resolver     ports.SessionResolver
	Guard        service.Guard
	Verification ports.VerificationService
	Catalogue    ports.EventCatalogue
	Societies    ports.SocietyService
	Health       *handlers.HealthHandler
	Readiness    *handlers.HealthDependenciesHandler
	AllowOrigins []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  d.AllowOrigins,
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderSessionID},
		ExposeHeaders: []string{middleware.HeaderSessionID},
	}))
	e.Use(echoprometheus.NewMiddleware("eventsphere"))

	// --- Health probes, metrics and docs (no session required) ---
	e.GET("/health", d.Health.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", d.Readiness.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	session := middleware.Session(d.Resolver)
	allow := func(a service.Action) echo.MiddlewareFunc { return middleware.RBAC(d.Guard, a) }

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Resolver, d.Log)
	auth := e.Group("/auth", session)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/confirm", authHandler.Confirm)
	auth.GET("/session", authHandler.Session)
	auth.GET("/session/events", authHandler.Events)

	v1 := e.Group("/v1", session, middleware.RequireIdentity())

	// --- Moderation (super admin) ---
	approvals := handler.NewApprovalHandler(d.Verification)
	v1.GET("/approvals/events", approvals.ListPendingEvents, allow(service.ActionListPendingEvents))
	v1.PATCH("/approvals/events/:id", approvals.SetEventVerified, allow(service.ActionVerifyEvent))
	v1.GET("/approvals/users", approvals.ListUsers, allow(service.ActionListUsers))
	v1.PATCH("/approvals/users/:id/role", approvals.SetUserRole, allow(service.ActionAssignRole))

	// --- Societies ---
	societies := handler.NewSocietyHandler(d.Societies)
	v1.GET("/societies", societies.List, allow(service.ActionViewSocieties))
	v1.POST("/societies", societies.Create, allow(service.ActionManageSocieties))
	v1.DELETE("/societies/:id", societies.Delete, allow(service.ActionManageSocieties))

	// --- Events and dashboards ---
	events := handler.NewEventHandler(d.Catalogue, d.Verification)
	v1.GET("/events", events.List, allow(service.ActionBrowseEvents))
	v1.POST("/events", events.Create, allow(service.ActionCreateEvent))
	v1.POST("/events/describe", events.Describe, allow(service.ActionGenerateDescription))
	v1.POST("/events/:id/registrations", events.Register, allow(service.ActionRegister))
	v1.GET("/me/registrations", events.MyRegistrations, allow(service.ActionViewStudentBoard))
	v1.GET("/dashboard/student", events.StudentDashboard, allow(service.ActionViewStudentBoard))
	v1.GET("/dashboard/society", events.SocietyDashboard, allow(service.ActionViewSocietyBoard))

	return e
}

// requestLogger logs every request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("session_id", c.Response().Header().Get(middleware.HeaderSessionID)).
				Msg("request")
			return nil
		},
	})
}
