package post

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MsgTitleRequired = "You must provide a title"
	MsgBodyRequired  = "You must provide post content"
	MsgTryLater      = "Please try again later"
)

// Post is the stored document in the posts collection.
type Post struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title"         json:"title"`
	Body        string        `bson:"body"          json:"body"`
	CreatedDate time.Time     `bson:"createdDate"   json:"createdDate"`
	Author      bson.ObjectID `bson:"author"        json:"author"`
}

// Author is the denormalized author summary attached to a PostView.
type Author struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// PostView is a post joined with its author and flagged relative to the
// requesting visitor. It is never persisted.
type PostView struct {
	ID             bson.ObjectID `json:"_id"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	CreatedDate    time.Time     `json:"createdDate"`
	AuthorID       bson.ObjectID `json:"authorId"`
	Author         Author        `json:"author"`
	IsVisitorOwner bool          `json:"isVisitorOwner"`
}

// Input is the raw, untrusted payload for create and update. Fields are
// untyped because clients may send anything; non-strings clean to "".
type Input struct {
	Title any `json:"title"`
	Body  any `json:"body"`
}

// Clean builds a post from raw input: non-string fields become empty, text is
// trimmed and reduced to plain text by strip.
func Clean(in Input, strip func(string) string, authorID bson.ObjectID, now time.Time) *Post {
	return &Post{
		Title:       cleanText(in.Title, strip),
		Body:        cleanText(in.Body, strip),
		CreatedDate: now,
		Author:      authorID,
	}
}

// Validate returns every problem with the post, title first.
func (p *Post) Validate() []string {
	var errs []string
	if p.Title == "" {
		errs = append(errs, MsgTitleRequired)
	}
	if p.Body == "" {
		errs = append(errs, MsgBodyRequired)
	}
	return errs
}

func cleanText(v any, strip func(string) string) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(strip(strings.TrimSpace(s)))
}
