package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-storefront/internal/app"
	"food-storefront/internal/catalog"
	"food-storefront/internal/config"
	"food-storefront/internal/database"
	"food-storefront/internal/logging"
	"food-storefront/internal/metrics"
	"food-storefront/internal/storage"
	"food-storefront/internal/supabase"
	"food-storefront/internal/telegram"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	menuRepo := catalog.NewRepository(db.SQL)
	sessions := telegram.NewSessionRepository(db.SQL, cfg.DraftTTL)
	metricsStore := metrics.NewStore(db.SQL, logger)

	menuFile, err := storage.NewMenuFile(cfg.MenuFilePath, logger)
	if err != nil {
		logger.Fatal("failed to initialize menu file", zap.Error(err))
	}

	// 3. Initialize Services
	application := app.NewApp(
		supabase.NewClient(cfg, logger),
		menuRepo,
		menuFile,
		metricsStore,
		app.NewLogSubmitter(logger),
		logger,
	)

	// An empty cache is filled before serving; a failed sync falls back to the menu file.
	if count, err := menuRepo.Count(ctx); err == nil && count == 0 {
		if _, err := application.SyncMenu(ctx); err != nil {
			logger.Warn("initial menu sync failed", zap.Error(err))
			if _, err := application.ImportMenuFile(ctx); err != nil {
				logger.Warn("menu file import failed", zap.Error(err))
			}
		}
	}

	if err := sessions.CleanupExpired(ctx); err != nil {
		logger.Warn("failed to clean up expired sessions", zap.Error(err))
	}

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, sessions, metricsStore, logger)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	// 5. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		logger.Info("telegram bot server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
