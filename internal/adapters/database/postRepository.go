package database

import (
	"context"
	"fmt"

	"socialblog/internal/config"
	"socialblog/internal/core/post"
	userPort "socialblog/internal/ports/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	postsCollection   = "posts"
	usersCollection   = "users"
	followsCollection = "follows"
)

// PostRepositoryMongo پیاده‌سازی PostRepository برای MongoDB
type PostRepositoryMongo struct {
	posts   *mongo.Collection
	avatars userPort.AvatarResolver
}

// NewPostRepositoryMongo سازنده PostRepositoryMongo
func NewPostRepositoryMongo(db *config.Mongo, avatars userPort.AvatarResolver) *PostRepositoryMongo {
	return &PostRepositoryMongo{
		posts:   db.DB.Collection(postsCollection),
		avatars: avatars,
	}
}

// Aggregate runs the caller stages followed by the author join and returns
// the shaped views. Any failure returns no rows at all.
func (repo *PostRepositoryMongo) Aggregate(ctx context.Context, stages mongo.Pipeline, visitorID bson.ObjectID) ([]*post.PostView, error) {
	cursor, err := repo.posts.Aggregate(ctx, buildPipeline(stages))
	if err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []postRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return shapeRows(rows, visitorID, repo.avatars), nil
}

func (repo *PostRepositoryMongo) Insert(ctx context.Context, p *post.Post) (bson.ObjectID, error) {
	res, err := repo.posts.InsertOne(ctx, p)
	if err != nil {
		return bson.NilObjectID, err
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	p.ID = id
	return id, nil
}

func (repo *PostRepositoryMongo) FindByID(ctx context.Context, id, visitorID bson.ObjectID) (*post.PostView, error) {
	views, err := repo.Aggregate(ctx, byIDStages(id), visitorID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, post.ErrNotFound
	}
	return views[0], nil
}

func (repo *PostRepositoryMongo) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*post.PostView, error) {
	return repo.Aggregate(ctx, byAuthorStages(authorID), bson.NilObjectID)
}

func (repo *PostRepositoryMongo) FindByAuthors(ctx context.Context, authorIDs []bson.ObjectID) ([]*post.PostView, error) {
	return repo.Aggregate(ctx, byAuthorsStages(authorIDs), bson.NilObjectID)
}

func (repo *PostRepositoryMongo) Search(ctx context.Context, term string) ([]*post.PostView, error) {
	return repo.Aggregate(ctx, searchStages(term), bson.NilObjectID)
}

func (repo *PostRepositoryMongo) CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error) {
	return repo.posts.CountDocuments(ctx, bson.D{{Key: "author", Value: authorID}})
}

func (repo *PostRepositoryMongo) UpdateOwned(ctx context.Context, id, authorID bson.ObjectID, title, body string) (bool, error) {
	res, err := repo.posts.UpdateOne(ctx,
		ownedFilter(id, authorID),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: title},
			{Key: "body", Value: body},
		}}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (repo *PostRepositoryMongo) DeleteOwned(ctx context.Context, id, authorID bson.ObjectID) (bool, error) {
	res, err := repo.posts.DeleteOne(ctx, ownedFilter(id, authorID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (repo *PostRepositoryMongo) IsOwner(ctx context.Context, id, authorID bson.ObjectID) (bool, error) {
	n, err := repo.posts.CountDocuments(ctx, ownedFilter(id, authorID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func ownedFilter(id, authorID bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "author", Value: authorID}}
}
