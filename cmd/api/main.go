package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redis_adapter "github.com/user/docs-crawler/internal/adapter/redis"
	"github.com/user/docs-crawler/internal/bootstrap"
	"github.com/user/docs-crawler/internal/delivery/http/handler"
	"github.com/user/docs-crawler/internal/delivery/http/router"
	"github.com/user/docs-crawler/internal/usecase"
	"github.com/user/docs-crawler/pkg/config"
	"github.com/user/docs-crawler/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	// --- Logger ---
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	ctx := context.Background()

	// --- Storage ---
	documents, closeStore, err := bootstrap.OpenDocumentStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Unable to open document store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connection established")
	statuses := redis_adapter.NewJobStatusRepo(rdb, cfg.JobStatusTTL)

	// --- Rendering ---
	renderer, err := bootstrap.NewRenderer(cfg, log)
	if err != nil {
		log.Fatal("Unable to create renderer", zap.Error(err))
	}
	log.Info("Renderer selected", zap.String("renderer", cfg.Renderer))

	// --- Use Cases ---
	crawler := usecase.NewCrawlerUseCase(renderer, documents, usecase.CrawlerConfig{
		PageLoadTimeout: cfg.PageLoadTimeout,
		CrawlDelay:      cfg.CrawlDelay,
	}, log)
	scraper := usecase.NewScraperUseCase(renderer, documents, cfg.PageLoadTimeout, log)
	jobs := usecase.NewJobManager(crawler, statuses, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(scraper, jobs, documents, map[string]handler.Pinger{
		cfg.StoreDriver: documents,
		"redis":         statuses,
	}, cfg.DefaultMaxPages, log)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router.New(apiHandler, log),
		ReadTimeout: 10 * time.Second,
		// A single-page scrape holds the connection for up to a full page load.
		WriteTimeout: cfg.PageLoadTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("port", cfg.ServerPort))

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Running crawls stop at their next page boundary and record their final status.
	jobs.Shutdown()
	done := make(chan struct{})
	go func() {
		jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("Crawl jobs did not finish before the shutdown timeout")
	}

	log.Info("Server exiting")
}
