package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/doccart/api/controllers"
	"github.com/angelmondragon/doccart/api/routes"
	"github.com/angelmondragon/doccart/internal/cart"
	"github.com/angelmondragon/doccart/internal/documents"
	"github.com/angelmondragon/doccart/internal/submissions"
	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/db"
	"github.com/angelmondragon/doccart/pkg/instance"
	"github.com/angelmondragon/doccart/pkg/logger"
	"github.com/angelmondragon/doccart/pkg/metrics"
	"github.com/angelmondragon/doccart/pkg/migrate"
	"github.com/angelmondragon/doccart/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	deps := cart.FactoryDeps{DB: dbClient.DB()}
	var redisPinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		deps.Redis = redisClient
		redisPinger = redisClient
	}

	backends, err := cart.NewBackendFactory(cfg.Cart, deps)
	if err != nil {
		logg.Error(context.Background(), "failed to configure cart backend", err)
		os.Exit(1)
	}

	docsRepo, err := documents.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create documents repository", err)
		os.Exit(1)
	}
	submissionsRepo, err := submissions.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions repository", err)
		os.Exit(1)
	}
	recorder, err := submissions.NewRecorder(submissionsRepo, docsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create submission recorder", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cartService, err := cart.NewService(backends, docsRepo, recorder, nil, metrics.NewCartMetrics(registry), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": backends.Kind(),
		"instance":     instance.ID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisPinger, cartService, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
