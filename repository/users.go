package repository

import (
	"context"
	"errors"
	"fmt"

	"tonotes/model"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// FindByID loads the id and username of a user. Other user fields are never
// read by this service.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	timer := utils.TrackDBOperation("find_one", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	opts := options.FindOne().SetProjection(bson.M{
		"_id":      1,
		"username": 1,
	})

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return &user, nil
}
