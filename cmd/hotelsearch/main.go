package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/config"
	"github.com/kailas-cloud/hotelsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hotelsearch/internal/db/redis"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	logpkg "github.com/kailas-cloud/hotelsearch/internal/logger"
	"github.com/kailas-cloud/hotelsearch/internal/metrics"
	"github.com/kailas-cloud/hotelsearch/internal/repository/facetcache"
	chiTransport "github.com/kailas-cloud/hotelsearch/internal/transport/chi"
	"github.com/kailas-cloud/hotelsearch/internal/transport/stream"
	healthuc "github.com/kailas-cloud/hotelsearch/internal/usecase/health"
	"github.com/kailas-cloud/hotelsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/hotelsearch/internal/usecase/search"
	"github.com/kailas-cloud/hotelsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting hotelsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("engine_addresses", cfg.Engine.Addresses),
		zap.String("index", cfg.Engine.Index),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("sync_enabled", cfg.Sync.Enabled),
	)

	ctx := context.Background()

	engine, err := elastic.NewEngine(elastic.Config{
		Addresses:  cfg.Engine.Addresses,
		Username:   cfg.Engine.Username,
		Password:   cfg.Engine.Password,
		Index:      cfg.Engine.Index,
		MaxRetries: cfg.Engine.MaxRetries,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}
	if err := engine.WaitForReady(ctx, time.Duration(cfg.Engine.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Redis backs both the facet cache and the sync stream.
	var store *dbRedis.Store
	if cfg.Cache.Enabled || cfg.Sync.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Cache.Addrs,
			Password:   cfg.Cache.Password,
			ClientName: "hotelsearch",
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")
	}

	hitPolicy, err := searchuc.ParseHitPolicy(cfg.Search.HitPolicy)
	if err != nil {
		logger.Fatal("Invalid search config", zap.Error(err))
	}
	searchSvc := searchuc.New(engine, searchuc.Config{
		Timeout:         time.Duration(cfg.Engine.RequestTimeoutMs) * time.Millisecond,
		PromotedWeight:  cfg.Search.PromotedWeight,
		FacetBucketSize: cfg.Search.FacetBucketSize,
		SuggestSize:     cfg.Search.SuggestSize,
		HitPolicy:       hitPolicy,
		OpenEndedPrice:  cfg.Search.OpenEndedPriceRange,
		HighlightName:   cfg.Search.HighlightEnabled(),
	}, logger)

	// Pass nil interface (not typed nil pointer!) when redis is not configured.
	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}
	var facets *facetcache.Cache
	if cfg.Cache.Enabled {
		facets = facetcache.New(
			store, cfg.Cache.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.FacetCacheTotal, logger,
		)
		searchSvc.WithFacetCache(facets)
	}

	healthSvc := healthuc.New(engine, cachePinger)

	var consumer *stream.Consumer
	if cfg.Sync.Enabled {
		consumerName := cfg.Sync.Consumer
		if consumerName == "" {
			consumerName = defaultConsumerName()
		}
		indexer := indexing.New(engine, logger)
		if facets != nil {
			indexer.WithFacetEvictor(facets)
		}
		consumer = stream.New(store, indexer, stream.Config{
			Stream:    cfg.Sync.Stream,
			Group:     cfg.Sync.Group,
			Consumer:  consumerName,
			BatchSize: cfg.Sync.BatchSize,
			Block:     time.Duration(cfg.Sync.BlockMs) * time.Millisecond,
		}, logger)
		if err := consumer.Start(ctx); err != nil {
			logger.Fatal("Failed to start sync consumer", zap.Error(err))
		}
	}

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, criteria.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	if consumer != nil {
		consumer.Stop()
	}

	logger.Info("Server stopped gracefully")
}

// defaultConsumerName keeps consumer names unique across replicas and restarts.
func defaultConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "hotelsearch"
	}
	return host + "-" + uuid.NewString()[:8]
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
