package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/Kweldop/social-media-backend/cmd/api/router/v1"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/auth"
	cacheAdapter "github.com/Kweldop/social-media-backend/internal/infrastructure/cache/adapter"
	cachePort "github.com/Kweldop/social-media-backend/internal/infrastructure/cache/port"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/config"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/database"
	"github.com/Kweldop/social-media-backend/internal/infrastructure/realtime"
	"github.com/Kweldop/social-media-backend/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/adapter"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found or could not be loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	var cache cachePort.Cache
	if cfg.RedisURL != "" {
		cache, err = cacheAdapter.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
	} else {
		logger.Info("REDIS_URL not set, using in-process conversation cache")
		cache = cacheAdapter.NewMemoryAdapter()
	}
	defer cache.Close()

	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to initialize auth", "err", err)
		os.Exit(1)
	}

	registry := realtime.NewRegistry()
	defer registry.Close()

	repo := repoAdapter.NewPgChatRepository(pool)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, authManager, repo, usecase.NewConversationCache(cache), registry, logger)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		logger.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "err", err)
	}
}
