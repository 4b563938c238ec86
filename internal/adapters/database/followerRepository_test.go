package database

import (
	"testing"

	"socialblog/internal/core/follower"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDistinctIDs(t *testing.T) {
	a, b, c := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()
	edges := []*follower.Follow{
		{AuthorID: a, FollowedID: b},
		{AuthorID: a, FollowedID: c},
		{AuthorID: a, FollowedID: b},
	}

	got := distinctIDs(edges, func(f *follower.Follow) bson.ObjectID { return f.FollowedID })
	assert.Equal(t, []bson.ObjectID{b, c}, got)

	assert.Empty(t, distinctIDs(nil, func(f *follower.Follow) bson.ObjectID { return f.AuthorID }))
}
