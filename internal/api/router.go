package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/recipehub/recipe-api/docs"
	"github.com/recipehub/recipe-api/internal/api/handler"
	"github.com/recipehub/recipe-api/internal/api/middleware"
	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
	"github.com/recipehub/recipe-api/internal/infrastructure/http/handlers"
)

const bodyLimit = "1M"

// Deps holds everything NewRouter wires into the HTTP surface.
type Deps struct {
	AuthService   ports.AuthService
	RecipeService ports.RecipeService
	Tokens        middleware.TokenVerifier
	Logger        zerolog.Logger

	// AuthRequiredForWrites guards POST/PUT/DELETE /recipes with Auth and RBAC.
	AuthRequiredForWrites bool
	CORSOrigins           []string

	// ReadinessChecks are pinged by GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handlers.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware, in order ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  origins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
		ExposeHeaders: []string{echo.HeaderLocation, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(middleware.BodyShape())

	// --- Probes, metrics, docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.ReadinessChecks)

	e.GET("/", handler.Index)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Recipe routes: reads are public ---
	recipeHandler := handler.NewRecipeHandler(d.RecipeService)
	recipes := e.Group("/recipes")
	recipes.GET("", recipeHandler.List)
	recipes.GET("/:id", recipeHandler.Get)

	var guard []echo.MiddlewareFunc
	if d.AuthRequiredForWrites {
		guard = append(guard, middleware.Auth(d.Tokens), middleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	}
	recipes.POST("", recipeHandler.Create, guard...)
	recipes.PUT("/:id", recipeHandler.Update, guard...)
	recipes.DELETE("/:id", recipeHandler.Delete, guard...)

	return e
}
