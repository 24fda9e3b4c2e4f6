package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"estimator/internal/artifact"
	"estimator/internal/config"
	"estimator/internal/handler"
	"estimator/internal/logging"
	"estimator/internal/metrics"
	"estimator/internal/repository"
	"estimator/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Property Price Estimator",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	reg := metrics.New()

	// Load artifacts. A failed artifact leaves the server up in degraded mode.
	src, err := artifact.NewSource(cfg)
	if err != nil {
		logger.Fatal("Failed to create artifact source", zap.Error(err))
	}
	logger.Info("📦 Loading artifacts", zap.String("source", src.Describe()))

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	bundle := artifact.Load(loadCtx, cfg.Artifacts, src, service.FeatureNames(), logger)
	cancel()

	// Initialize audit store
	var store service.PredictionStore
	if cfg.PostgreSQL.Enabled {
		dbURL := cfg.GetPostgreSQLURL()
		if cfg.PostgreSQL.MigrateOnStart {
			if err := repository.RunMigrations(dbURL); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
			logger.Info("✅ Database migrations applied")
		}

		repo, err := repository.NewPostgresRepository(
			dbURL,
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()
		store = repo

		logger.Info("✅ Connected to PostgreSQL database")
	} else {
		logger.Warn("⚠️  Prediction audit log is disabled - set AUDIT_ENABLED=true to keep prediction history")
	}

	// Initialize services
	estimator := service.NewEstimatorService(
		service.Runtime{Model: bundle.Model, Vocabulary: bundle.Vocabulary},
		store,
		reg,
		logger,
	)

	logger.Info("✅ Services initialized")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router,
		handler.NewPredictHandler(estimator),
		handler.NewHealthHandler(estimator, handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		}),
		handler.NewHistoryHandler(estimator, cfg.History.DefaultLimit, cfg.History.MaxLimit),
	)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(reg.Handler()))
	}

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	logger.Info(fmt.Sprintf("🚀 Starting server on %s", addr))
	logger.Info(fmt.Sprintf("🌐 Web UI: http://localhost:%d", cfg.Server.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Let pending audit writes land before the database closes
	estimator.Wait()

	logger.Info("✅ Server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
