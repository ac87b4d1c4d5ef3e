package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/config"
	"github.com/kailas-cloud/fuzzdex/internal/db/driver"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	logpkg "github.com/kailas-cloud/fuzzdex/internal/logger"
	"github.com/kailas-cloud/fuzzdex/internal/metrics"
	collectionrepo "github.com/kailas-cloud/fuzzdex/internal/repository/collection"
	chiTransport "github.com/kailas-cloud/fuzzdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fuzzdex/internal/usecase/search"
	"github.com/kailas-cloud/fuzzdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fuzzdex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("normalization", cfg.Search.Normalization),
	)

	store, err := driver.Open(cfg.Database.Driver, driver.Options{
		Addrs:         cfg.Database.Addrs,
		Username:      cfg.Database.Username,
		Password:      cfg.Database.Password,
		DB:            cfg.Database.DB,
		OnScriptCache: metrics.ObserveScriptCache,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	form, err := bigram.ParseNormalization(cfg.Search.Normalization)
	if err != nil {
		logger.Fatal("Invalid normalization", zap.Error(err))
	}

	collRepo := collectionrepo.New(store)
	searchSvc := searchuc.New(collRepo,
		searchuc.WithRecorder(metrics.SearchRecorder{}),
		searchuc.WithNormalization(form),
		searchuc.WithMaxLimit(cfg.Search.MaxLimit),
		searchuc.WithMaxNeedleBytes(cfg.Search.MaxNeedleSize),
		searchuc.WithMinScore(cfg.Search.MinScore),
		searchuc.WithTimeout(time.Duration(cfg.Search.TimeoutMS)*time.Millisecond),
	)
	healthSvc := healthuc.New(store, 2*time.Second)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger,
		chiTransport.WithDefaultLimit(cfg.Search.DefaultLimit),
		chiTransport.WithPrecision(cfg.Search.Precision),
	)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
