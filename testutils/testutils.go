// Package testutils holds fixtures shared by the integration tests. Tests that
// need a live MongoDB or Redis skip unless MONGO_TEST_URI or REDIS_TEST_URL is
// set.
package testutils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"tonotes/config"
	"tonotes/model"
	"tonotes/utils"

	"github.com/Pallinder/go-randomdata"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	MongoURIEnv = "MONGO_TEST_URI"
	RedisURLEnv = "REDIS_TEST_URL"
)

// SetupTestDB connects to the test MongoDB and returns a database with a
// unique name. The database is dropped when the test ends.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set", MongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := utils.NewMongoClient(ctx, config.DatabaseConfig{
		URI:              uri,
		DatabaseName:     "tonotes_test",
		MaxPoolSize:      10,
		MaxConnIdleTime:  time.Minute,
		RetryWrites:      true,
		ConnectAttempts:  3,
		OperationTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	db := client.Database(fmt.Sprintf("tonotes_test_%s", primitive.NewObjectID().Hex()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.Drop(ctx); err != nil {
			t.Logf("Warning: Failed to drop test database %s: %v", db.Name(), err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: Failed to disconnect: %v", err)
		}
	})

	return db
}

// SetupTestRedis connects to the test Redis and flushes the selected DB
// before and after the test.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv(RedisURLEnv)
	if url == "" {
		t.Skipf("%s not set", RedisURLEnv)
	}

	client, err := utils.NewRedisClient(context.Background(), url)
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	flush := func() {
		if err := client.FlushDB(context.Background()).Err(); err != nil {
			t.Logf("Warning: Failed to flush test Redis DB: %v", err)
		}
	}
	flush()
	t.Cleanup(func() {
		flush()
		_ = client.Close()
	})

	return client
}

// InsertUser writes a users document the way the auth service stores them.
func InsertUser(t *testing.T, coll *mongo.Collection, username string) primitive.ObjectID {
	t.Helper()

	id := primitive.NewObjectID()
	_, err := coll.InsertOne(context.Background(), bson.M{
		"_id":      id,
		"username": username,
		"email":    strings.ToLower(username) + "@example.com",
		"password": "hashed",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	return id
}

func RandomUsername() string {
	return randomdata.SillyName() + randomdata.Digits(4)
}

// RandomNote returns an unsaved note owned by user.
func RandomNote(user primitive.ObjectID) *model.Note {
	return &model.Note{
		User:  user,
		Title: randomdata.Noun() + " " + randomdata.Digits(6),
		Text:  randomdata.Paragraph(),
	}
}
