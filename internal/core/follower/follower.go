package follower

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Follow is a directed edge: AuthorID follows FollowedID.
type Follow struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	AuthorID   bson.ObjectID `bson:"authorId"`
	FollowedID bson.ObjectID `bson:"followedId"`
}

// Policy decides which edges are accepted. Both rules are off by default.
type Policy struct {
	AllowSelfFollow bool
	AllowDuplicates bool
}

const (
	MsgUnknownUser      = "You cannot follow a user that does not exist."
	MsgSelfFollow       = "You cannot follow yourself."
	MsgAlreadyFollowing = "You are already following this user."
	MsgNotFollowing     = "You cannot stop following someone you do not already follow."
)

// ErrAlreadyFollowing is returned by the store when a unique edge exists.
var ErrAlreadyFollowing = errors.New("follow edge already exists")

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid follow: " + strings.Join(e.Messages, "; ")
}
