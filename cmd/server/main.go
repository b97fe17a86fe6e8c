package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/config"
	"github.com/SAP-F-2025/role-assessment-service/internal/handlers"
	"github.com/SAP-F-2025/role-assessment-service/internal/llm"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/role-assessment-service/internal/services"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
	"github.com/SAP-F-2025/role-assessment-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	provider, err := buildProvider(cfg, logger)
	if err != nil {
		logger.Error("failed to create generation provider", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, slogger)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(repo, cacheService, publisher, provider, slogger, validator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := services.NewSweeper(serviceManager.Session(), slogger,
		time.Duration(cfg.SweepIntervalSeconds)*time.Second)
	sweeper.Start(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger)
	handlerManager.SetupRoutes(router, cfg, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildProvider wires the generation backend. Without an API key the mock
// provider keeps the rest of the service usable in local development.
func buildProvider(cfg *config.Config, logger utils.Logger) (llm.Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, generation will use the mock provider")
		return llm.NewMockProvider(), nil
	}
	return llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
}
