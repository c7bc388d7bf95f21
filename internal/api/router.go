package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"

	_ "github.com/itamhq/itam-api/docs"
	"github.com/itamhq/itam-api/internal/api/handler"
	"github.com/itamhq/itam-api/internal/api/middleware"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth    ports.AuthService
	Assets  ports.AssetService
	Users   ports.UserService
	Tickets ports.TicketService

	// Checks run on GET /health/ready.
	Checks []handler.DependencyCheck
	// RateLimiter is optional; nil disables per-client limiting.
	RateLimiter *middleware.RateLimiter
	// IPExtractor resolves the client address used for rate limiting and
	// logs. nil means the socket peer; forwarding headers are ignored.
	IPExtractor echo.IPExtractor
	CORSOrigins []string
	// Registerer receives the HTTP request metrics; nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.IPExtractor = deps.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{"*"},
	}))
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "itam",
		Registerer: registerer,
	}))
	if deps.RateLimiter != nil {
		e.Use(deps.RateLimiter.Middleware())
	}

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	assetHandler := handler.NewAssetHandler(deps.Assets)
	userHandler := handler.NewUserHandler(deps.Users)
	ticketHandler := handler.NewTicketHandler(deps.Tickets)

	requireAuth := middleware.Auth(deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Auth)

	// --- Auth routes ---
	e.POST("/token", authHandler.Login)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/me", authHandler.Me, requireAuth)

	// --- Assets: reads are public ---
	e.GET("/assets", assetHandler.List)
	e.GET("/assets/:id", assetHandler.Get)
	e.POST("/assets", assetHandler.Create, requireAuth)
	e.PUT("/assets/:id", assetHandler.Update, requireAuth)
	e.DELETE("/assets/:id", assetHandler.Delete, requireAuth)

	// --- Users: registration is open to anonymous callers ---
	e.POST("/users", userHandler.Create, optionalAuth)
	e.GET("/users", userHandler.List, requireAuth)
	e.GET("/users/:id", userHandler.Get, requireAuth)
	e.PUT("/users/:id", userHandler.Update, requireAuth)
	e.DELETE("/users/:id", userHandler.Delete, requireAuth)

	// --- Tickets ---
	tickets := e.Group("/tickets", requireAuth)
	tickets.POST("", ticketHandler.Create)
	tickets.GET("", ticketHandler.List)
	tickets.GET("/:id", ticketHandler.Get)
	tickets.PUT("/:id", ticketHandler.Update)
	tickets.DELETE("/:id", ticketHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", openAPIDocument)

	return e
}

func openAPIDocument(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
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
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
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
