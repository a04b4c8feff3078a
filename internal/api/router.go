package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gamblers/ledger-api/docs"
	"github.com/gamblers/ledger-api/internal/api/handler"
	"github.com/gamblers/ledger-api/internal/api/middleware"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Log           zerolog.Logger
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Users         ports.UserService
	Transactions  ports.TransactionService

	// Readiness lists the backing stores probed by /health/ready.
	Readiness map[string]handler.DependencyCheck

	// HTTP metrics are only collected when both are set.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	if deps.MetricsRegisterer != nil && deps.MetricsGatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "ledger",
			Registerer: deps.MetricsRegisterer,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.MetricsGatherer,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	txHandler := handler.NewTransactionHandler(deps.Transactions)

	requireAuth := middleware.Auth(deps.Authenticator)
	optionalAuth := middleware.OptionalAuth(deps.Authenticator)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- User routes ---
	e.POST("/users", userHandler.Create, optionalAuth)
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.POST("/:id/consent", userHandler.SetConsent)

	// --- Transaction routes ---
	txs := e.Group("/transactions", requireAuth)
	txs.POST("", txHandler.Create)
	txs.GET("", txHandler.List, adminOnly)
	txs.GET("/user/:id", txHandler.ListByUser)
	txs.GET("/:id", txHandler.Get)
	txs.PUT("/:id", txHandler.Update)
	txs.DELETE("/:id", txHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured access-log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
