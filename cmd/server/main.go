package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	redisv9 "github.com/redis/go-redis/v9"

	"bazi_backend/internal/app/di"
	"bazi_backend/internal/app/router"
	"bazi_backend/internal/config"
	bazihandler "bazi_backend/internal/feature/bazi/transport/handler"
	fortuneadapters "bazi_backend/internal/feature/fortune/adapters"
	fortunehandler "bazi_backend/internal/feature/fortune/transport/handler"
	fortuneusecase "bazi_backend/internal/feature/fortune/usecase"
	"bazi_backend/internal/platform/db"
	healthhandler "bazi_backend/internal/platform/http/handler"
	"bazi_backend/internal/platform/logger"
	infraredis "bazi_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(db.Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, cfg.RunMigrations, &fortuneadapters.ProfileModel{})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	checks := map[string]healthhandler.Check{"database": sqlDB.PingContext}

	// Redis（未設定・接続失敗時はキャッシュなしで動作）
	var rdb *redisv9.Client
	if cfg.CacheEnabled() {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	clock, err := di.NewClock(cfg)
	if err != nil {
		return err
	}

	// Usecase
	calendarUC, err := di.NewCalendar(cfg)
	if err != nil {
		return err
	}
	analyzer, err := di.NewAnalyzer(ctx, cfg, rdb, clock)
	if err != nil {
		return err
	}
	profileRepo := fortuneadapters.NewProfileRepository(gdb)
	fortuneUC := fortuneusecase.NewFortuneUsecase(calendarUC, analyzer, profileRepo, clock)

	// Handler
	r := router.NewRouter(
		healthhandler.NewHealthHandler(checks),
		bazihandler.NewBaziHandler(calendarUC, clock),
		fortunehandler.NewProfileHandler(fortuneUC),
		cfg.CORSAllowedOrigins,
	)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting bazi API", "env", cfg.Env, "port", cfg.Port, "sect", cfg.Sect, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
