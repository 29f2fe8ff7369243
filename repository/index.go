package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tonotes/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NoteOwnerTitleTextIndex = "user_title_text"

// SetupIndexes creates the notes indexes. With unique set, the owner/title/text
// index rejects duplicates at write time instead of relying on the pre-check.
func SetupIndexes(ctx context.Context, coll *mongo.Collection, unique bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "title", Value: 1},
				{Key: "text", Value: 1},
			},
			Options: options.Index().
				SetName(NoteOwnerTitleTextIndex).
				SetCollation(NoteCollation).
				SetUnique(unique),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	logger.Info(ctx, "notes indexes ready",
		slog.String("collection", coll.Name()),
		slog.Bool("unique", unique),
	)
	return nil
}
