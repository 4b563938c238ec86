package post

import (
	"context"

	"socialblog/internal/core/post"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostRepository reads and writes posts. Read methods return joined views; a
// zero visitor means the request is anonymous.
type PostRepository interface {
	Insert(ctx context.Context, p *post.Post) (bson.ObjectID, error)
	FindByID(ctx context.Context, id, visitorID bson.ObjectID) (*post.PostView, error)
	FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*post.PostView, error)
	FindByAuthors(ctx context.Context, authorIDs []bson.ObjectID) ([]*post.PostView, error)
	Search(ctx context.Context, term string) ([]*post.PostView, error)
	CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error)

	// UpdateOwned and DeleteOwned match on id and author in one call and
	// report whether a document matched.
	UpdateOwned(ctx context.Context, id, authorID bson.ObjectID, title, body string) (bool, error)
	DeleteOwned(ctx context.Context, id, authorID bson.ObjectID) (bool, error)
	IsOwner(ctx context.Context, id, authorID bson.ObjectID) (bool, error)
}

// Sanitizer reduces untrusted text to plain text.
type Sanitizer interface {
	Strip(s string) string
}

// CreateResponse is returned to the client after a post is created.
type CreateResponse struct {
	ID string `json:"id"`
}
