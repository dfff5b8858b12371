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

	"github.com/whitebox/contacts-service/internal/api"
	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/bootstrap"
	"github.com/whitebox/contacts-service/internal/core/service"
	"github.com/whitebox/contacts-service/internal/infrastructure/db/redis"
	"github.com/whitebox/contacts-service/internal/pkg/config"
	"github.com/whitebox/contacts-service/pkg/logger"
)

// @title                       Contacts API
// @version                     1.0
// @description                 Personal address books of registered users.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "contacts-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	checks := map[string]handler.Pinger{store.Driver: store.Pinger}

	authOpts := []service.AuthOption{service.WithAuthLogger(log)}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			_ = store.Close(context.Background())
			return err
		}
		defer client.Close()
		authOpts = append(authOpts, service.WithUserCache(redis.NewUserCache(client), cfg.Redis.CacheTTL))
		checks["redis"] = redis.Pinger{Client: client}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("user cache enabled")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:        service.NewAuthService(store.Users, cfg.JWTSecret, cfg.JWTTTL, authOpts...),
		Contacts:    service.NewContactService(store.Contacts, store.Users, log),
		Checks:      checks,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", store.Driver).Msg("http server starting")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = store.Close(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
	log.Info().Msg("server exited gracefully")
	return nil
}
