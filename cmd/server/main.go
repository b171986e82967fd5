package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apporder "github.com/fieldsales/backend/internal/application/order"
	"github.com/fieldsales/backend/internal/infrastructure/cartstore"
	"github.com/fieldsales/backend/internal/infrastructure/config"
	"github.com/fieldsales/backend/internal/infrastructure/logger"
	"github.com/fieldsales/backend/internal/infrastructure/orderqueue"
	"github.com/fieldsales/backend/internal/infrastructure/salesapi"
	"github.com/fieldsales/backend/internal/interfaces/http/handler"
	"github.com/fieldsales/backend/internal/interfaces/http/middleware"
	"github.com/fieldsales/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cartstore.New(ctx, cartstore.Backend(cfg.CartStore.Backend), cartstore.RedisConfig{
		Addr:       fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		SessionTTL: cfg.CartStore.SessionTTL,
	}, log)
	if err != nil {
		log.Fatal("failed to create cart store", zap.Error(err))
	}

	client, err := salesapi.NewClient(salesapi.Config{
		BaseURL:        cfg.SalesAPI.BaseURL,
		APIToken:       cfg.SalesAPI.APIToken,
		TimeoutSeconds: cfg.SalesAPI.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("failed to create sales api client", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	queue, err := orderqueue.NewSQLiteQueue(cfg.Queue.Path, gormLog, log)
	if err != nil {
		log.Fatal("failed to open submission queue", zap.Error(err))
	}
	queue.SetMaxRetries(cfg.Queue.MaxRetries)

	flusher := orderqueue.NewFlusher(queue, client, cfg.Queue.FlushInterval, log)
	go flusher.Run(ctx)

	if err := middleware.RegisterValidations(); err != nil {
		log.Fatal("failed to register request validations", zap.Error(err))
	}

	service := apporder.NewComposerService(client, store, client, queue, log, cfg.Fefo.Enabled)
	engine := router.New(handler.NewCartHandler(service), log)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
