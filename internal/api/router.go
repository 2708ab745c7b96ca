package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/yaswanth810/Women-Safety-Platform/docs"
	"github.com/yaswanth810/Women-Safety-Platform/internal/api/handler"
	"github.com/yaswanth810/Women-Safety-Platform/internal/api/middleware"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// Services are the core operations exposed over HTTP.
type Services struct {
	Auth      ports.AuthService
	Contacts  ports.ContactService
	Incidents ports.IncidentService
	SOS       ports.SOSService
	Analytics ports.AnalyticsService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, checks map[string]handler.HealthCheck, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("safespace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	profileHandler := handler.NewProfileHandler(svc.Auth)
	contactHandler := handler.NewContactHandler(svc.Contacts)
	incidentHandler := handler.NewIncidentHandler(svc.Incidents)
	sosHandler := handler.NewSOSHandler(svc.SOS)
	adminHandler := handler.NewAdminHandler(svc.Analytics)
	healthHandler := handler.NewHealthHandler(checks)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	v1.GET("/users/profile", profileHandler.Get)
	v1.PUT("/users/profile", profileHandler.Update)

	v1.POST("/contacts", contactHandler.Add)
	v1.GET("/contacts", contactHandler.List)
	v1.DELETE("/contacts/:id", contactHandler.Remove)

	v1.POST("/incidents", incidentHandler.Create)
	v1.GET("/incidents", incidentHandler.List)
	v1.GET("/incidents/:id", incidentHandler.Get)
	v1.POST("/incidents/:id/evidence", incidentHandler.AppendEvidence)
	v1.PUT("/incidents/:id/status", incidentHandler.SetStatus)

	v1.POST("/sos", sosHandler.Trigger)
	v1.GET("/sos", sosHandler.List)
	v1.GET("/sos/:id", sosHandler.Get)
	v1.POST("/sos/:id/deactivate", sosHandler.Deactivate)

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleModerator, domain.RoleAdmin))
	admin.GET("/hotspots", adminHandler.Hotspots)
	admin.GET("/stats", adminHandler.Stats)

	return e
}
