package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tonotes/config"
	"tonotes/logger"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects to MongoDB and pings the primary until it answers
// or the configured attempts run out.
func NewMongoClient(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, cfg.ClientOptions().SetPoolMonitor(MongoPoolMonitor()))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	err = retry.Do(
		func() error { return client.Ping(ctx, readpref.Primary()) },
		retry.Context(ctx),
		retry.Delay(300*time.Millisecond),
		retry.Attempts(cfg.ConnectAttempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn(ctx, "failed ping to mongodb",
				logger.Err(err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info(ctx, "connected to mongodb", slog.String("db", cfg.DatabaseName))
	return client, nil
}
