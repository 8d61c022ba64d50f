// @title                      Account Service API
// @version                    1.0
// @description                Account administration behind bearer-token authorization.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/api"
	"github.com/hiringgo/account-service/internal/api/handler"
	"github.com/hiringgo/account-service/internal/core/service"
	mongodb "github.com/hiringgo/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/hiringgo/account-service/internal/infrastructure/db/redis"
	"github.com/hiringgo/account-service/internal/infrastructure/password"
	"github.com/hiringgo/account-service/internal/infrastructure/queue"
	"github.com/hiringgo/account-service/internal/infrastructure/token"
	"github.com/hiringgo/account-service/internal/pkg/config"
	"github.com/hiringgo/account-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "account-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("account service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("account service starting")

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	store := mongodb.NewAccountRepository(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	repo := redisdb.NewCachedAccountRepository(store, rdb, cfg.Redis.CacheTTL, logger.Component("cache"))

	verifier, err := token.NewVerifier(cfg.JWTSecret, logger.Component("token"))
	if err != nil {
		return err
	}

	accounts := service.NewAccountService(repo, password.NewBcryptHasher(cfg.Security.BcryptCost), logger.Component("accounts"))

	pool := queue.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, logger.Component("pool"))
	pool.Start()

	router := api.NewRouter(api.Deps{
		Accounts: queue.NewAccountDispatcher(pool, accounts),
		Verifier: verifier,
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			"redis":   handler.PingerFunc(func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, 0) }),
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	// Drain in-flight account operations after the server stops accepting requests.
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("worker pool did not drain")
	}

	log.Info().Msg("account service stopped")
	return nil
}
