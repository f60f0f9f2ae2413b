package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/coursehub/catalog-api/docs"
	"github.com/coursehub/catalog-api/internal/api/handler"
	"github.com/coursehub/catalog-api/internal/api/httperror"
	"github.com/coursehub/catalog-api/internal/api/middleware"
	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/core/ports"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Authenticator middleware.RequestAuthenticator
	AuthService   ports.AuthService
	UserService   ports.UserService
	CourseService ports.CourseService
	// Checkers are pinged by the readiness probe, keyed by dependency name.
	Checkers map[string]handler.Checker
	Logger   zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = httperror.NewHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Authenticate(d.Authenticator))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	userHandler := handler.NewUserHandler(d.UserService)
	courseHandler := handler.NewCourseHandler(d.CourseService)
	healthHandler := handler.NewHealthHandler(d.Checkers)

	// --- Operational routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Auth ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Users ---
	v1.GET("/me", userHandler.Me, middleware.Authorize(domain.OpReadProfile))
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Get)

	// --- Courses (authorization is enforced by the course service) ---
	v1.GET("/courses", courseHandler.List)
	v1.GET("/courses/:id", courseHandler.Get)
	v1.POST("/courses", courseHandler.Create)
	v1.PUT("/courses/:id", courseHandler.Update)
	v1.DELETE("/courses/:id", courseHandler.Delete)

	return e
}
