package database

import (
	"context"

	"socialblog/internal/config"
	"socialblog/internal/core/follower"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FollowerRepositoryMongo پیاده‌سازی FollowerRepository برای MongoDB
type FollowerRepositoryMongo struct {
	follows *mongo.Collection
}

// NewFollowerRepositoryMongo سازنده FollowerRepositoryMongo
func NewFollowerRepositoryMongo(db *config.Mongo) *FollowerRepositoryMongo {
	return &FollowerRepositoryMongo{follows: db.DB.Collection(followsCollection)}
}

func (repo *FollowerRepositoryMongo) FollowUser(ctx context.Context, f *follower.Follow) (*follower.Follow, error) {
	res, err := repo.follows.InsertOne(ctx, f)
	if mongo.IsDuplicateKeyError(err) {
		return nil, follower.ErrAlreadyFollowing
	}
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		f.ID = id
	}
	return f, nil
}

func (repo *FollowerRepositoryMongo) UnfollowUser(ctx context.Context, authorID, followedID bson.ObjectID) (bool, error) {
	res, err := repo.follows.DeleteOne(ctx, edgeFilter(authorID, followedID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (repo *FollowerRepositoryMongo) IsFollowing(ctx context.Context, authorID, followedID bson.ObjectID) (bool, error) {
	n, err := repo.follows.CountDocuments(ctx, edgeFilter(authorID, followedID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FollowedIDs returns the ids authorID follows, without duplicates.
func (repo *FollowerRepositoryMongo) FollowedIDs(ctx context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error) {
	return repo.GetFollowing(ctx, authorID)
}

func (repo *FollowerRepositoryMongo) GetFollowers(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	edges, err := repo.find(ctx, bson.D{{Key: "followedId", Value: userID}})
	if err != nil {
		return nil, err
	}
	return distinctIDs(edges, func(f *follower.Follow) bson.ObjectID { return f.AuthorID }), nil
}

func (repo *FollowerRepositoryMongo) GetFollowing(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	edges, err := repo.find(ctx, bson.D{{Key: "authorId", Value: userID}})
	if err != nil {
		return nil, err
	}
	return distinctIDs(edges, func(f *follower.Follow) bson.ObjectID { return f.FollowedID }), nil
}

func (repo *FollowerRepositoryMongo) CountFollowers(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return repo.follows.CountDocuments(ctx, bson.D{{Key: "followedId", Value: userID}})
}

func (repo *FollowerRepositoryMongo) CountFollowing(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return repo.follows.CountDocuments(ctx, bson.D{{Key: "authorId", Value: userID}})
}

func (repo *FollowerRepositoryMongo) find(ctx context.Context, filter bson.D) ([]*follower.Follow, error) {
	cursor, err := repo.follows.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []*follower.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func edgeFilter(authorID, followedID bson.ObjectID) bson.D {
	return bson.D{{Key: "authorId", Value: authorID}, {Key: "followedId", Value: followedID}}
}

func distinctIDs(edges []*follower.Follow, pick func(*follower.Follow) bson.ObjectID) []bson.ObjectID {
	seen := make(map[bson.ObjectID]struct{}, len(edges))
	ids := make([]bson.ObjectID, 0, len(edges))
	for _, e := range edges {
		id := pick(e)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
