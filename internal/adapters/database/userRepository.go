package database

import (
	"context"
	"errors"
	"fmt"

	"socialblog/internal/config"
	"socialblog/internal/core/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UserRepositoryMongo پیاده‌سازی UserRepository برای MongoDB
type UserRepositoryMongo struct {
	users *mongo.Collection
}

// NewUserRepositoryMongo سازنده UserRepositoryMongo
func NewUserRepositoryMongo(db *config.Mongo) *UserRepositoryMongo {
	return &UserRepositoryMongo{users: db.DB.Collection(usersCollection)}
}

func (repo *UserRepositoryMongo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	res, err := repo.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return nil, user.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	u.ID = id
	return u, nil
}

func (repo *UserRepositoryMongo) FindByID(ctx context.Context, id bson.ObjectID) (*user.User, error) {
	return repo.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (repo *UserRepositoryMongo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if username == "" {
		return nil, user.ErrNotFound
	}
	return repo.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (repo *UserRepositoryMongo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*user.User, error) {
	cursor, err := repo.users.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryMongo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return repo.exists(ctx, bson.D{{Key: "username", Value: username}})
}

func (repo *UserRepositoryMongo) EmailExists(ctx context.Context, email string) (bool, error) {
	return repo.exists(ctx, bson.D{{Key: "email", Value: email}})
}

func (repo *UserRepositoryMongo) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var u user.User
	err := repo.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryMongo) exists(ctx context.Context, filter bson.D) (bool, error) {
	n, err := repo.users.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
