package mongodb

import (
	"context"
	"fmt"
	"os"

	"financial-advisor/api/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var (
	ProfileCollection string = "profiles"
	MongoDatabase     string = "financial_advisor"
)

// Connect opens a MongoDB client from the MONGO_URI environment variable.
func Connect(ctx context.Context) (*mongo.Client, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(mongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB",
			zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Get().Error("failed to ping MongoDB",
			zap.Error(err))
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	logger.Get().Info("successfully connected to MongoDB")
	return client, nil
}

// Disconnect closes the client, logging instead of failing on error.
func Disconnect(client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB",
			zap.Error(err))
		return
	}
	logger.Get().Info("successfully disconnected from MongoDB")
}
