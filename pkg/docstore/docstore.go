// Package docstore owns the MongoDB connection used for orders.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/pkg/logger"
)

// Collection names.
const (
	ColOrders = "orders"
	ColLogs   = "logs"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the client, pings it and makes sure the indexes exist.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("docstore: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("docstore: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())

	if err := ensureIndexes(ctx, DB); err != nil {
		logger.Warn("docstore: ensure indexes failed", "error", err)
	}
	return nil
}

// Collection returns a handle on the named collection of the connected database.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// Disconnect closes the client.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ColOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user.id", Value: 1}}},
	})
	return err
}
