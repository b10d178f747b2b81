package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/life-command/internal/auth"
	"github.com/BuzzLyutic/life-command/internal/cache"
	"github.com/BuzzLyutic/life-command/internal/config"
	"github.com/BuzzLyutic/life-command/internal/handler"
	"github.com/BuzzLyutic/life-command/internal/repo"
	"github.com/BuzzLyutic/life-command/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.AutoMigrate {
		if err := repo.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal("Failed to migrate the Database", zap.Error(err))
		}
		logger.Info("Database schema is up to date")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping the Database", zap.Error(err))
	}
	logger.Info("Successfully connected to the Database")

	taskRepo := repo.NewTaskRepo(pool)
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithStrictOwnership(cfg.StrictOwnership),
		service.WithOwnerScopedSchedule(cfg.OwnerScopedSchedule),
	}

	var checks []handler.HealthCheck
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		defer client.Close()

		taskCache := cache.New(client, cache.DefaultPrefix, cfg.CacheTTL)
		opts = append(opts, service.WithCache(taskCache))
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: taskCache.Ping})
		logger.Info("Task list cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	taskService := service.NewTaskService(taskRepo, opts...)
	checks = append([]handler.HealthCheck{{Name: "postgres", Ping: taskService.Ping}}, checks...)

	verifier := auth.NewJWTVerifier(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if cfg.InternalAPIKey == "" {
		logger.Warn("INTERNAL_API_KEY is not set, the command API will reject every request")
	}
	authMiddleware := auth.NewMiddleware(verifier, cfg.InternalAPIKey, cfg.SessionCookie, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Tasks:          handler.NewTaskHandler(taskService, authMiddleware, logger),
		Auth:           authMiddleware,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HealthChecks:   checks,
	})

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully")
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zcfg.Level = lvl
	}

	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
