package main

import (
	"context"
	"time"

	"github.com/whitebox/contacts-service/internal/bootstrap"
	"github.com/whitebox/contacts-service/internal/pkg/config"
	"github.com/whitebox/contacts-service/internal/seed"
	"github.com/whitebox/contacts-service/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "contacts-seed",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	_, err = seed.New(store.Users, store.Contacts, log).Run(ctx)
	if closeErr := store.Close(context.Background()); closeErr != nil {
		log.Error().Err(closeErr).Msg("store close")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Str("admin_password", seed.AdminPassword).
		Str("user_password", seed.UserPassword).
		Msg("default passwords")
}
