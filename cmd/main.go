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

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/cache"
	"github.com/Dosada05/tournament-brackets/config"
	"github.com/Dosada05/tournament-brackets/db"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/routes"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("auto_advance_byes", cfg.AutoAdvanceByes))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
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

	version, err := db.Migrate(dbConn)
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema ready", slog.Uint64("version", uint64(version)))

	deps := services.BracketDeps{
		Tx:              repositories.NewPostgresTransactor(dbConn, logger),
		Tournaments:     repositories.NewPostgresTournamentRepository(dbConn),
		Brackets:        repositories.NewPostgresBracketRepository(dbConn),
		AutoAdvanceByes: cfg.AutoAdvanceByes,
		Logger:          logger,
	}

	// Архив снимков сетки в Cloudflare R2
	if cfg.ArchiveEnabled() {
		store, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Archive = storage.NewSnapshotArchive(store)
		logger.Info("bracket snapshot archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	// Кэш сеток в Redis
	if cfg.CacheEnabled() {
		bracketCache, err := cache.NewBracketCache(ctx, cfg.RedisURL, cache.DefaultTTL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer bracketCache.Close()
		deps.Cache = bracketCache
		logger.Info("bracket cache enabled")
	}

	// Инициализация WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := brackets.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		wsHub.Run(hubCtx)
		close(hubDone)
	}()
	deps.Publisher = wsHub
	logger.Info("WebSocket Hub started")

	authService := services.NewAuthService(repositories.NewPostgresUserRepository(dbConn))
	tournamentService := services.NewTournamentService(deps)
	bracketService := services.NewBracketService(deps)
	logger.Info("Services initialized")

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Bracket:    handlers.NewBracketHandler(bracketService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, bracketService, cfg.CORSAllowedOrigins, logger),
	}, routes.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

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
			stopHub()
			<-hubDone
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
		} else {
			logger.Info("server shutdown complete")
		}
	}

	// Закрываем websocket-клиентов после HTTP-сервера
	stopHub()
	<-hubDone
	logger.Info("application exited")
}
