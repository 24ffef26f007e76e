package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"phPortfolio/internal/api"
	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
	"phPortfolio/internal/logging"
	"phPortfolio/internal/media"
)

func main() {
	cfg := config.MustLoad()

	logger, err := logging.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("invalid log settings, fallback to zap production logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("api bootstrapping",
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("media_provider", cfg.Media.Provider),
	)

	db, err := database.InitDatabase(cfg.Database, cfg.App.IsDev())
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}
	logger.Info("database ready")

	authService, err := auth.NewAuthService(db, cfg.Auth.Secret, cfg.Auth.SessionTTL)
	if err != nil {
		logger.Fatal("init auth service", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if cfg.Admin.Configured() {
		created, err := authService.EnsureAdmin(startupCtx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("ensure admin", zap.Error(err))
		}
		if created {
			logger.Info("admin account created", zap.String("email", cfg.Admin.Email))
		}
	}

	uploader, err := media.NewUploader(startupCtx, cfg.Media)
	if err != nil {
		logger.Fatal("init media uploader", zap.Error(err))
	}

	var limiter api.LoginLimiter
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(startupCtx).Err(); err != nil {
			logger.Fatal("ping redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		limiter = redisClient
		logger.Info("login throttling enabled", zap.String("redis_addr", cfg.Redis.Addr()))
	} else {
		logger.Warn("REDIS_HOST not set, login throttling disabled")
	}

	router, err := api.NewRouter(logger)
	if err != nil {
		logger.Fatal("init router", zap.Error(err))
	}
	api.RegisterRoutes(router, api.Deps{
		Config:      cfg,
		Store:       content.NewStore(db),
		AuthService: authService,
		Uploader:    uploader,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited")
}
