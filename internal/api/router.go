package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/kostmate/booking-api/docs"
	"github.com/kostmate/booking-api/internal/api/handler"
	"github.com/kostmate/booking-api/internal/api/middleware"
	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
// Mongo and Redis are optional and only feed the readiness probe.
type Dependencies struct {
	Logger     zerolog.Logger
	JWTSecret  string
	Identities ports.IdentityStores
	Tokens     ports.TokenIssuer
	Ledger     ports.OrderLedger
	Stats      ports.StatsService
	Events     ports.EventService
	Mongo      *mongo.Database
	Redis      *redis.Client
	Now        func() time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// HTTP metrics get their own registry so the router can be built more
	// than once per process; /metrics gathers it alongside the default one.
	httpRegistry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "kostmate",
		Subsystem:  "http",
		Registerer: httpRegistry,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Identities, deps.Tokens)
	orderHandler := handler.NewOrderHandler(deps.Ledger, deps.Stats)
	adminHandler := handler.NewAdminHandler(deps.Ledger, deps.Stats, deps.Events)
	partnerHandler := handler.NewPartnerHandler(deps.Ledger, deps.Stats, deps.Now)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Identities)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Customer routes ---
	v1.GET("/services", orderHandler.Catalog)

	asUser := []echo.MiddlewareFunc{authMiddleware, middleware.RBAC(domain.RoleUser)}
	v1.POST("/orders", orderHandler.Create, asUser...)
	v1.GET("/orders", orderHandler.ListMine, asUser...)
	v1.GET("/orders/:id", orderHandler.Get, authMiddleware)
	v1.POST("/orders/:id/review", orderHandler.Review, asUser...)
	v1.GET("/dashboard", orderHandler.Dashboard, asUser...)

	// --- Admin routes ---
	// Middleware is attached per route: group middleware would also guard
	// unknown paths and turn their 404 into a 401.
	asAdmin := []echo.MiddlewareFunc{authMiddleware, middleware.RBAC(domain.RoleAdmin)}
	admin := v1.Group("/admin")
	admin.GET("/orders", adminHandler.ListOrders, asAdmin...)
	admin.GET("/stats", adminHandler.Stats, asAdmin...)
	admin.POST("/orders/:id/assign", adminHandler.Assign, asAdmin...)
	admin.PATCH("/orders/:id/status", adminHandler.SetStatus, asAdmin...)
	admin.PATCH("/orders/:id/payment", adminHandler.SetPayment, asAdmin...)
	admin.GET("/orders/:id/events", adminHandler.Events, asAdmin...)

	// --- Partner routes ---
	asPartner := []echo.MiddlewareFunc{authMiddleware, middleware.RBAC(domain.RolePartner)}
	partner := v1.Group("/partner")
	partner.GET("/orders", partnerHandler.ListOrders, asPartner...)
	partner.GET("/stats", partnerHandler.Stats, asPartner...)
	partner.PATCH("/orders/:id/status", partnerHandler.SetStatus, asPartner...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpRegistry},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
