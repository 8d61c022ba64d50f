package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hiringgo/account-service/docs"
	"github.com/hiringgo/account-service/internal/api/handler"
	"github.com/hiringgo/account-service/internal/api/middleware"
	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

// Deps holds everything the router needs to serve requests.
type Deps struct {
	Accounts  ports.AccountService
	Verifier  ports.TokenVerifier
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Metrics())
	e.Use(middleware.Authenticate(d.Verifier, d.Logger.With().Str("component", "auth").Logger()))

	// --- Health probes, metrics and docs (no authority required) ---
	health := handler.NewHealthHandler(d.Readiness)
	e.GET("/health", health.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness)     // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Account administration ---
	accounts := handler.NewAccountHandler(d.Accounts)
	g := e.Group("/accounts", middleware.RequireAuthority(domain.RoleAdmin.Authority()))
	g.POST("", accounts.Create)
	g.GET("", accounts.List)
	g.GET("/:id", accounts.Get)
	g.PATCH("/:id", accounts.UpdateRole)
	g.DELETE("/:id", accounts.Delete)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	})

	return e
}
