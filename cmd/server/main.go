package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	redis_cache "yatube/internal/cache/redis"
	"yatube/internal/config"
	delivery_http "yatube/internal/delivery/http"
	metrics_server "yatube/internal/delivery/metrics"
	"yatube/internal/logger"
	prometheus_metrics "yatube/internal/metrics/prometheus"
	"yatube/internal/migrator"
	group_postgres "yatube/internal/repository/group/postgres"
	post_postgres "yatube/internal/repository/post/postgres"
	"yatube/internal/repository/postgres"
	user_postgres "yatube/internal/repository/user/postgres"
	auth_service "yatube/internal/service/auth"
	feed_service "yatube/internal/service/feed"
	post_service "yatube/internal/service/post"
)

func main() {
	cfg := config.MustLoad()
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DbName)
	ctx := context.Background()
	log := logger.New(cfg.Env)

	if err := migrator.Run(cfg.Database, log); err != nil {
		log.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	log.Info("Connecting to Redis",
		slog.String("address", cfg.Redis.Address),
		slog.Int("port", cfg.Redis.Port),
		slog.Int("db", cfg.Redis.DB))
	redisClient, err := redis_cache.NewClient(cfg.Redis, log)
	if err != nil {
		log.Error("Failed to create Redis client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
		}
	}()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	postCache := redis_cache.NewPostCache(redisClient, log)

	unitOfWork := postgres.NewPostgresUOW(pool, log, metrics)
	postRepo := post_postgres.NewPostRepository(pool, log, metrics)
	groupRepo := group_postgres.NewGroupRepository(pool, log, metrics)
	userRepo := user_postgres.NewUserRepository(pool, log, metrics)

	postService := post_service.NewPostServiceCacheDecorator(
		post_service.NewPostService(postRepo, groupRepo, userRepo, unitOfWork, log, metrics),
		postCache,
		log,
		metrics,
	)
	feedService := feed_service.NewFeedService(postRepo, groupRepo, userRepo, cfg.Pagination.PageSize, log)
	authService := auth_service.NewAuthService(userRepo, log)

	handler := delivery_http.NewHandler(postService, feedService, authService, log)
	router := delivery_http.NewRouter(handler, cfg, log, metrics)
	httpServer := delivery_http.NewServer(router, cfg, log)

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
