package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/student-marks/internal/config"
	"github.com/iliyamo/student-marks/internal/database"
	"github.com/iliyamo/student-marks/internal/handler"
	"github.com/iliyamo/student-marks/internal/logger"
	"github.com/iliyamo/student-marks/internal/middleware"
	"github.com/iliyamo/student-marks/internal/queue"
	"github.com/iliyamo/student-marks/internal/repository"
	"github.com/iliyamo/student-marks/internal/router"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("prod", "info")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// An unreachable datastore is not fatal: keep serving, each query fails on its own.
	if err := database.Ping(ctx, db); err != nil {
		log.Error().Err(err).Str("host", cfg.DBHost).Msg("database connection failed")
	} else {
		log.Info().Str("database", cfg.DBName).Msg("connected to MySQL")
	}

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	rateCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	eventsCfg, err := config.LoadEventsConfig()
	if err != nil {
		return err
	}

	rdb, err := config.NewRedisClient(ctx, redisCfg)
	var redisPing handler.PingFunc
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
		redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var events handler.EventPublisher
	if eventsCfg.Enabled {
		pub, err := queue.NewPublisher(eventsCfg.URL, eventsCfg.Queue)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, marks events disabled")
		} else {
			defer pub.Close()
			events = pub
		}
	}

	repo := repository.NewMarkRepo(db)
	e := router.New(router.Options{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins(),
		MarksMiddleware: []echo.MiddlewareFunc{
			middleware.NewTokenBucket(rateCfg, rdb),
			middleware.NewRedisCache(cacheCfg, rdb),
		},
	},
		handler.NewHealthHandler(cfg.Env, repo.Ping, redisPing),
		handler.NewMarkHandler(repo, events),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
