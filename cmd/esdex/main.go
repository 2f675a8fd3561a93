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

	esdex "github.com/kailas-cloud/esdex"
	"github.com/kailas-cloud/esdex/internal/cache"
	"github.com/kailas-cloud/esdex/internal/config"
	logpkg "github.com/kailas-cloud/esdex/internal/logger"
	"github.com/kailas-cloud/esdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/esdex/internal/transport/chi"
	"github.com/kailas-cloud/esdex/internal/version"
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

	logger.Info("Starting esdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Int("models", len(cfg.Models)),
	)

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	defer engine.Close()

	// Resolve every model up front so config errors surface at startup,
	// not on the first request.
	ctx := context.Background()
	for _, name := range engine.Models() {
		if _, err := engine.Mapping(ctx, name); err != nil {
			logger.Fatal("Invalid model definition",
				zap.String("model", name),
				zap.Error(err))
		}
	}
	logger.Info("Models resolved", zap.Strings("models", engine.Models()))

	server := chiTransport.NewServer(engine, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
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

	logger.Info("Server stopped gracefully")
}

func buildEngine(cfg config.Config, logger *zap.Logger) (*esdex.Engine, error) {
	models := make(map[string]esdex.ModelConfig, len(cfg.Models))
	for name, m := range cfg.Models {
		models[name] = esdex.ModelConfig{
			SearchableFields:   m.SearchableFields,
			TranslatableFields: m.Translatable.Fields,
			Locales:            m.Translatable.Locales,
			FallbackLocale:     m.Translatable.FallbackLocale,
			Boost:              m.Boost,
			ChunkSize:          m.ChunkSize,
			IndexName:          m.Index.Name,
			Shards:             m.Index.Shards,
			Replicas:           m.Index.Replicas,
			Version:            m.Version,
		}
	}

	opts := []esdex.Option{
		esdex.WithLogger(logger),
		esdex.WithTTL(time.Duration(cfg.Cache.TTLSec) * time.Second),
		esdex.WithWorkers(cfg.Indexing.Workers),
	}
	switch cfg.Cache.Driver {
	case "redis":
		opts = append(opts, esdex.WithRedisCache(cfg.Cache.Addrs, cfg.Cache.Password, cfg.Cache.KeyPrefix))
	default: // memory
		opts = append(opts, esdex.WithCache(cache.NewMemory()))
	}

	return esdex.New(models, opts...)
}
