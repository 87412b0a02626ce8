package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/config"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/utils"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/validator"
	"github.com/SAP-F-2025/quiz-authoring-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger is not configured yet
		utils.NewLogger("").LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Service stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}

	storeConfig := cache.StoreConfig{DraftTTL: cfg.DraftTTL, SubmitLockTTL: cfg.SubmitLockTTL}
	var drafts cache.DraftStore
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		drafts = cache.NewRedisDraftStore(client, slogger, storeConfig)
		logger.Info("Using Redis draft store")
	} else {
		drafts = cache.NewMemoryDraftStore(storeConfig)
		logger.Warn("REDIS_URL not set, drafts are kept in process memory")
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	repo := postgres.NewQuizPostgreSQL(db)
	v := validator.New()

	manager := handlers.NewHandlerManager(
		services.NewQuizAuthoringService(repo, drafts, publisher, slogger, v),
		services.NewImportExportService(repo, drafts, slogger),
		services.NewGradingService(repo, slogger, v),
		logger,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	manager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Quiz authoring service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
