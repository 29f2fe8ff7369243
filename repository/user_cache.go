package repository

import (
	"context"
	"errors"
	"time"

	"tonotes/logger"
	"tonotes/model"
	"tonotes/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const usernameKeyPrefix = "user:username:"

type userFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// CachedUserRepo serves usernames from Redis and falls back to the wrapped
// repository on a miss. A Redis failure never fails the lookup.
type CachedUserRepo struct {
	next   userFinder
	client *redis.Client
	ttl    time.Duration
}

func NewCachedUserRepo(next userFinder, client *redis.Client, ttl time.Duration) *CachedUserRepo {
	return &CachedUserRepo{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (r *CachedUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	key := usernameKeyPrefix + id.Hex()

	username, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		utils.TrackUsernameCache("hit")
		return &model.User{ID: id, Username: username}, nil
	case errors.Is(err, redis.Nil):
		utils.TrackUsernameCache("miss")
	default:
		utils.TrackUsernameCache("error")
		logger.Warn(ctx, "username cache read failed", logger.UserID(id), logger.Err(err))
	}

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, key, user.Username, r.ttl).Err(); err != nil {
		logger.Warn(ctx, "username cache write failed", logger.UserID(id), logger.Err(err))
	}
	return user, nil
}

// forget drops a cached username.
func (r *CachedUserRepo) forget(ctx context.Context, id primitive.ObjectID) error {
	return r.client.Del(ctx, usernameKeyPrefix+id.Hex()).Err()
}
