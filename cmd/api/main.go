// @title                       ITAM API
// @version                     1.0
// @description                 IT asset management: assets, users and tickets behind bearer-token auth.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/itamhq/itam-api/internal/api"
	"github.com/itamhq/itam-api/internal/api/handler"
	"github.com/itamhq/itam-api/internal/api/middleware"
	"github.com/itamhq/itam-api/internal/core/service"
	mongodb "github.com/itamhq/itam-api/internal/infrastructure/db/mongo"
	"github.com/itamhq/itam-api/internal/infrastructure/db/postgres"
	redisdb "github.com/itamhq/itam-api/internal/infrastructure/db/redis"
	"github.com/itamhq/itam-api/internal/infrastructure/queue"
	"github.com/itamhq/itam-api/internal/pkg/config"
	"github.com/itamhq/itam-api/pkg/logger"
)

const (
	shutdownTimeout      = 10 * time.Second
	rateLimitCleanupTick = time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "itam-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	if err := postgres.Migrate(cfg.Postgres.URL, logger.Component(log, "migrate")); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "itam-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	auditRepo := mongodb.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// --- Core ---
	assetRepo := postgres.NewAssetRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)

	// The dispatcher outlives the request context so queued audit records
	// drain after the HTTP server stops.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component(log, "audit"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	creds := service.NewCredentials(userRepo, cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret)
	throttle := redisdb.NewLoginThrottle(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow)

	authService := service.NewAuthService(creds, tokens, throttle, cfg.Auth.TokenTTL, logger.Component(log, "auth"))
	assetService := service.NewAssetService(assetRepo, dispatcher, logger.Component(log, "assets"))
	userService := service.NewUserService(userRepo, creds, dispatcher, logger.Component(log, "users"))
	ticketService := service.NewTicketService(ticketRepo, assetRepo, userRepo, dispatcher, logger.Component(log, "tickets"))

	if _, err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		return err
	}

	// --- HTTP ---
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	ipExtractor := echo.ExtractIPDirect()
	if cfg.RateLimit.TrustProxy {
		ipExtractor = echo.ExtractIPFromXFFHeader()
	}

	router := api.NewRouter(api.Dependencies{
		Auth:    authService,
		Assets:  assetService,
		Users:   userService,
		Tickets: ticketService,
		Checks: []handler.DependencyCheck{
			{Name: "postgres", Ping: pool.Ping},
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
		RateLimiter: limiter,
		IPExtractor: ipExtractor,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger.Component(log, "http"),
	})

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if limiter != nil {
		g.Go(func() error {
			limiter.RunCleanup(gctx, rateLimitCleanupTick)
			return nil
		})
	}

	return g.Wait()
}
