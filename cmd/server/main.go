package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/rotation-players/config"
	"github.com/Dosada05/rotation-players/db"
	_ "github.com/Dosada05/rotation-players/docs"
	"github.com/Dosada05/rotation-players/handlers"
	"github.com/Dosada05/rotation-players/repositories"
	api "github.com/Dosada05/rotation-players/routes"
	"github.com/Dosada05/rotation-players/scheduler"
	"github.com/Dosada05/rotation-players/services"
	"github.com/Dosada05/rotation-players/storage"
	"github.com/Dosada05/rotation-players/ws"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title Rotation Players API
// @version 1.0
// @description Ротация игроков по кортам, рейтинги, часы сессии и турнирная сетка.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Архив турниров в Cloudflare R2 (опционально)
	var archive storage.FileUploader
	if cfg.ArchiveEnabled() {
		archive, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("tournament archive disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	historyRepo := repositories.NewPostgresRatingHistoryRepository(dbConn)
	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)
	resultRepo := repositories.NewPostgresGameResultRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(cfg.OrganizerPasswordHash, cfg.JWTSecretKey)
	participantService := services.NewParticipantService(participantRepo, historyRepo, txRunner, logger)
	sessionService := services.NewSessionService(
		sessionRepo,
		participantRepo,
		historyRepo,
		resultRepo,
		txRunner,
		wsHub,
		archive,
		services.SessionDefaults{
			GameMinutes:       cfg.DefaultGameMinutes,
			TournamentMinutes: cfg.DefaultTournamentMinutes,
		},
		logger,
	)
	logger.Info("services initialized")

	// Планировщик: часы сессий и ночной пересчёт рейтингов
	jobs, err := scheduler.New(scheduler.Config{
		ClockPollInterval: cfg.ClockPollInterval,
		RatingsCronSpec:   cfg.RatingsRecalcCron,
	}, sessionService, participantService, logger)
	if err != nil {
		logger.Error("failed to initialize scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	jobs.Start()
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelStop()
		jobs.Stop(stopCtx)
	}()

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Participant: handlers.NewParticipantHandler(participantService),
		Session:     handlers.NewSessionHandler(sessionService),
		Clock:       handlers.NewClockHandler(sessionService),
		Bracket:     handlers.NewBracketHandler(sessionService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, sessionService, cfg.CORSAllowedOrigins),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
