package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contactbook/internal/repository"
)

const mongoConnectTimeout = 10 * time.Second

// NewMongo connects to uri, pings the primary and returns the named database.
// The caller disconnects the returned client on shutdown.
func NewMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

// MigrateMongo ensures the collection indexes. With reset set, both
// collections are dropped first.
func MigrateMongo(ctx context.Context, db *mongo.Database, reset bool, log *slog.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all collections")
		for _, name := range []string{"contacts", "users"} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Warn("failed to drop collection", "collection", name, "error", err)
			}
		}
	}

	if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
