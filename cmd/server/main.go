package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shoplyft/plan-service/config"
	"github.com/shoplyft/plan-service/internal/handlers"
	"github.com/shoplyft/plan-service/internal/middleware"
	"github.com/shoplyft/plan-service/internal/optimizer"
	"github.com/shoplyft/plan-service/internal/plans"
	"github.com/shoplyft/plan-service/internal/refdata"
	"github.com/shoplyft/plan-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting plan service")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	ref, err := refdata.Load(cfg.Data.ReferenceDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load reference data")
	}

	planStore, err := plans.NewStore(cfg.Data.PlansFile, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open plan archive")
	}

	planner, err := optimizer.NewPlanner(ref, &cfg.Optimizer, optimizer.NewMetricsRecorder(), *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid optimizer configuration")
	}

	handlers.Init(planner, ref, planStore)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	}))
	{
		api.POST("/plans/optimize", handlers.OptimizePlan)
	}

	internal := router.Group("/internal")
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		planGroup := internal.Group("/plans")
		{
			planGroup.GET("", handlers.ListPlans)
			planGroup.GET("/stats", handlers.PlanStats)
			planGroup.GET("/:planId", handlers.GetPlan)
			planGroup.GET("/:planId/export", handlers.ExportPlan)
			planGroup.DELETE("/:planId", handlers.DeletePlan)
		}

		products := internal.Group("/products")
		{
			products.GET("/search", handlers.SearchProducts)
			products.GET("/:canonicalId", handlers.GetProduct)
		}

		stores := internal.Group("/stores")
		{
			stores.GET("/nearby", handlers.NearbyStores)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "plan-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("HTTP request")
	})
}
