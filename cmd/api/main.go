package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/scheduling/internal/api/router"
	"github.com/clinicdesk/scheduling/internal/appointments"
	"github.com/clinicdesk/scheduling/internal/config"
	"github.com/clinicdesk/scheduling/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	var repo appointments.Repository = appointments.NewPostgresRepository(pool)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, conflict caching disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		repo = appointments.NewCachedRepository(repo, redisClient, cfg.ConflictCacheTTL, logger)
	}
	appointmentsHandler := appointments.NewHandler(repo, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointmentsHandler,
		MetricsHandler:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
