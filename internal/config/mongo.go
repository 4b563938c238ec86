package config

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Mongo is the document store handle shared by the repositories.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo opens the client and pings the primary before returning.
func ConnectMongo(ctx context.Context, cfg *Config, logger *zap.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.MongoDatabase),
	}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
