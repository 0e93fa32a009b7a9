package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/book-api/internal/config"
	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/handler"
	"github.com/iliyamo/book-api/internal/logging"
	"github.com/iliyamo/book-api/internal/middleware"
	"github.com/iliyamo/book-api/internal/queue"
	"github.com/iliyamo/book-api/internal/router"
	"github.com/iliyamo/book-api/internal/service"
	"github.com/iliyamo/book-api/internal/utils"
	"github.com/iliyamo/book-api/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.Must(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: response cache off, rate limiting in-process")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL, log)
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.AuthLogPath, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("auth-consumer stopped", zap.Error(err))
			}
		}()
	}

	e := newServer(cfg, st, rdb, events, log)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// newServer builds the echo instance with the global middleware chain and
// all routes.
func newServer(cfg config.Config, st stores, rdb *redis.Client, events service.EventPublisher, log *zap.Logger) *echo.Echo {
	jwtCfg := utils.JWTSettings{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.AccessTTLMin) * time.Minute,
	}
	authDeps := &service.AuthDeps{
		Users:      st.users,
		Tokens:     st.tokens,
		Hasher:     utils.BcryptHasher{Cost: cfg.BcryptCost},
		JWT:        jwtCfg,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		Events:     events,
		Log:        log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = fault.HTTPErrorHandler(log)
	e.Validator = validation.New()

	cors := config.LoadCORSConfig()
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cors.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))

	router.RegisterRoutes(e, router.Deps{
		Auth:       handler.NewAuthHandler(authDeps),
		Books:      handler.NewBookHandler(service.NewBookService(st.books, st.cats)),
		Categories: handler.NewCategoryHandler(service.NewCategoryService(st.cats)),
		JWT:        jwtCfg,
		Cache:      config.LoadCacheConfig(),
		Redis:      rdb,
		Log:        log,
	})
	return e
}
