package db

import (
	"context"
	"log/slog"

	"contactbook/internal/auth"
	"contactbook/internal/cache"
	"contactbook/internal/config"
	"contactbook/internal/repository"
)

// Stores bundles the repositories and token revocation list of one driver.
type Stores struct {
	Users    repository.UserRepository
	Contacts repository.ContactRepository
	Revoked  auth.TokenStoreInterface

	closers []func()
}

// Close releases every connection opened by Open.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open connects the store selected by cfg.StoreDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		mem := repository.NewMemoryStore()
		return &Stores{
			Users:    mem.Users(),
			Contacts: mem.Contacts(),
			Revoked:  auth.NewMemoryTokenStore(),
		}, nil

	case config.StoreMongo:
		client, database, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s := &Stores{
			Users:    repository.NewMongoUserRepository(database),
			Contacts: repository.NewMongoContactRepository(database),
			closers:  []func(){func() { _ = client.Disconnect(context.Background()) }},
		}
		if err := MigrateMongo(ctx, database, cfg.ResetDB, log); err != nil {
			s.Close()
			return nil, err
		}
		s.withRedis(ctx, cfg, log)
		return s, nil

	default:
		gormDB, err := NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		s := &Stores{
			Users:    repository.NewUserRepository(gormDB),
			Contacts: repository.NewContactRepository(gormDB),
			closers: []func(){func() {
				if sqlDB, err := gormDB.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}},
		}
		if err := MigrateMySQL(gormDB, cfg.ResetDB, log); err != nil {
			s.Close()
			return nil, err
		}
		s.withRedis(ctx, cfg, log)
		return s, nil
	}
}

func (s *Stores) withRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	if err := client.Ping(ctx); err != nil {
		// Logout still answers, but revoked tokens stay usable until they expire.
		log.Warn("redis unavailable, token revocation disabled", "addr", cfg.RedisAddr, "error", err)
	}
	s.Revoked = auth.NewTokenStore(client)
	s.closers = append(s.closers, func() { _ = client.Close() })
}
