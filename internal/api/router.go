package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/smartclinic/clinic-portal/docs"
	"github.com/smartclinic/clinic-portal/internal/api/handler"
	"github.com/smartclinic/clinic-portal/internal/api/middleware"
	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Sessions     ports.SessionService
	Directory    ports.DoctorDirectory
	Gateway      ports.ActionGateway
	Appointments ports.AppointmentBoard
	Audit        handler.AuditReader
	Readiness    map[string]handler.Pinger
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic_portal"))

	// --- Ops (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session lifecycle: works on the raw id, before resolution ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)

	portal := e.Group("/portal")
	portal.POST("/session", sessionHandler.Create)
	portal.POST("/session/role", sessionHandler.SelectRole)
	portal.POST("/login/:role", sessionHandler.Login)
	portal.POST("/logout", sessionHandler.Logout)
	portal.POST("/signup", sessionHandler.Signup)

	// --- Resolved session routes ---
	resolved := portal.Group("", middleware.Session(deps.Sessions))
	resolved.GET("/header", sessionHandler.Header)

	doctorHandler := handler.NewDoctorHandler(deps.Directory, deps.Gateway, deps.Log)
	resolved.GET("/doctors", doctorHandler.List)
	resolved.GET("/doctors/view", doctorHandler.Current)
	resolved.DELETE("/doctors/view", doctorHandler.Unmount)
	resolved.POST("/doctors", doctorHandler.Add)
	resolved.POST("/doctors/:id/actions/:kind", doctorHandler.Invoke)
	resolved.POST("/confirmations/:token", doctorHandler.Confirm)
	resolved.DELETE("/confirmations/:token", doctorHandler.Cancel)

	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments)
	resolved.GET("/appointments", appointmentHandler.List)
	resolved.DELETE("/appointments/view", appointmentHandler.Unmount)

	if deps.Audit != nil {
		auditHandler := handler.NewAuditHandler(deps.Audit)
		resolved.GET("/audit", auditHandler.List, middleware.RequireRole(domain.RoleAdmin))
	}

	return e
}
