// Package bootstrap opens the storage backend selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/whitebox/contacts-service/internal/api/handler"
	"github.com/whitebox/contacts-service/internal/core/ports"
	"github.com/whitebox/contacts-service/internal/infrastructure/db/memory"
	"github.com/whitebox/contacts-service/internal/infrastructure/db/mongo"
	"github.com/whitebox/contacts-service/internal/infrastructure/db/postgres"
	"github.com/whitebox/contacts-service/internal/pkg/config"
)

// Store bundles the repositories of one backend with its readiness check.
type Store struct {
	Driver   string
	Users    ports.UserRepository
	Contacts ports.ContactRepository
	Pinger   handler.Pinger

	close func(ctx context.Context) error
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects to cfg.StoreDriver and prepares its schema or indexes.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return &Store{
			Driver:   cfg.StoreDriver,
			Users:    mongo.NewUserRepository(db),
			Contacts: mongo.NewContactRepository(db),
			Pinger:   mongo.Pinger{Client: client},
			close:    client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN, Debug: cfg.IsDevelopment()}, log)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres connected")
		return &Store{
			Driver:   cfg.StoreDriver,
			Users:    postgres.NewUserRepository(db),
			Contacts: postgres.NewContactRepository(db),
			Pinger:   postgres.Pinger{DB: db},
			close:    func(context.Context) error { return postgres.Close(db) },
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return &Store{
			Driver:   cfg.StoreDriver,
			Users:    store.Users(),
			Contacts: store.Contacts(),
			Pinger:   store,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
