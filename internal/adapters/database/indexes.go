package database

import (
	"context"
	"errors"
	"fmt"

	"socialblog/internal/config"
	"socialblog/internal/core/follower"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// indexModels lists the indexes each collection needs. The follow edge index
// is unique unless the policy allows duplicate edges.
func indexModels(policy follower.Policy) map[string][]mongo.IndexModel {
	edge := mongo.IndexModel{
		Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "followedId", Value: 1}},
		Options: options.Index().SetName("follows_edge"),
	}
	if !policy.AllowDuplicates {
		edge.Options = options.Index().SetName("follows_edge_unique").SetUnique(true)
	}

	return map[string][]mongo.IndexModel{
		postsCollection: {
			{
				Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "body", Value: "text"}},
				Options: options.Index().SetName("posts_text"),
			},
			{
				Keys:    bson.D{{Key: "author", Value: 1}, {Key: "createdDate", Value: -1}},
				Options: options.Index().SetName("posts_author_created"),
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("users_username_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("users_email_unique").SetUnique(true),
			},
		},
		followsCollection: {
			edge,
			{
				Keys:    bson.D{{Key: "followedId", Value: 1}},
				Options: options.Index().SetName("follows_followed"),
			},
		},
	}
}

// Server codes for an index that exists with other options or another name.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// EnsureIndexes creates missing indexes at startup. Existing indexes with the
// same definition are left alone.
func EnsureIndexes(ctx context.Context, db *config.Mongo, policy follower.Policy, logger *zap.Logger) error {
	for coll, models := range indexModels(policy) {
		names, err := db.DB.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return indexError(coll, policy, err)
		}
		logger.Info("Indexes ready", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}

// indexError wraps a CreateMany failure. A conflict on the follows collection
// usually means FOLLOW_ALLOW_DUPLICATES changed since the last deploy.
func indexError(coll string, policy follower.Policy, err error) error {
	var se mongo.ServerError
	conflict := errors.As(err, &se) &&
		(se.HasErrorCode(codeIndexOptionsConflict) || se.HasErrorCode(codeIndexKeySpecsConflict))
	if !conflict || coll != followsCollection {
		return fmt.Errorf("create indexes on %s: %w", coll, err)
	}

	stale := "follows_edge"
	if policy.AllowDuplicates {
		stale = "follows_edge_unique"
	}
	return fmt.Errorf("create indexes on %s: follow policy changed, drop index %q and restart: %w", coll, stale, err)
}
