package follower

import (
	"context"

	"socialblog/internal/core/follower"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FollowerRepository پورت برای ذخیره‌سازی و بازیابی دنبال‌کنندگان
type FollowerRepository interface {
	FollowUser(ctx context.Context, f *follower.Follow) (*follower.Follow, error)
	UnfollowUser(ctx context.Context, authorID, followedID bson.ObjectID) (bool, error)
	IsFollowing(ctx context.Context, authorID, followedID bson.ObjectID) (bool, error)
	FollowedIDs(ctx context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error)
	GetFollowers(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error)
	GetFollowing(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error)
	CountFollowers(ctx context.Context, userID bson.ObjectID) (int64, error)
	CountFollowing(ctx context.Context, userID bson.ObjectID) (int64, error)
}

// FollowDTO is one entry of a followers or following list.
type FollowDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
