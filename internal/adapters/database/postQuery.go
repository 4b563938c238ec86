package database

import (
	"time"

	"socialblog/internal/core/post"
	"socialblog/internal/core/user"
	userPort "socialblog/internal/ports/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	stageMatch   = "$match"
	stageSort    = "$sort"
	stageLookup  = "$lookup"
	stageProject = "$project"
)

// postRow is one document as produced by the fixed join and projection.
type postRow struct {
	ID          bson.ObjectID `bson:"_id"`
	Title       string        `bson:"title"`
	Body        string        `bson:"body"`
	CreatedDate time.Time     `bson:"createdDate"`
	AuthorID    bson.ObjectID `bson:"authorId"`
	Author      *user.User    `bson:"author"`
}

func matchStage(filter bson.D) bson.D {
	return bson.D{{Key: stageMatch, Value: filter}}
}

func sortStage(order bson.D) bson.D {
	return bson.D{{Key: stageSort, Value: order}}
}

var newestFirst = bson.D{{Key: "createdDate", Value: -1}}

func byIDStages(id bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{matchStage(bson.D{{Key: "_id", Value: id}})}
}

func byAuthorStages(authorID bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{Key: "author", Value: authorID}}),
		sortStage(newestFirst),
	}
}

func byAuthorsStages(authorIDs []bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{Key: "author", Value: bson.D{{Key: "$in", Value: authorIDs}}}}),
		sortStage(newestFirst),
	}
}

func searchStages(term string) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}}}),
		sortStage(bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}),
	}
}

// buildPipeline appends the author join and projection to the caller stages.
// The caller slice is not modified.
func buildPipeline(stages mongo.Pipeline) mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(stages)+2)
	out = append(out, stages...)
	out = append(out,
		bson.D{{Key: stageLookup, Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDocument"},
		}}},
		bson.D{{Key: stageProject, Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "body", Value: 1},
			{Key: "createdDate", Value: 1},
			{Key: "authorId", Value: "$author"},
			{Key: "author", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$authorDocument", 0}}}},
		}}},
	)
	return out
}

// shapeRows turns joined rows into views. A zero visitor owns nothing.
func shapeRows(rows []postRow, visitorID bson.ObjectID, avatars userPort.AvatarResolver) []*post.PostView {
	views := make([]*post.PostView, 0, len(rows))
	for _, r := range rows {
		v := &post.PostView{
			ID:             r.ID,
			Title:          r.Title,
			Body:           r.Body,
			CreatedDate:    r.CreatedDate,
			AuthorID:       r.AuthorID,
			IsVisitorOwner: !visitorID.IsZero() && r.AuthorID == visitorID,
		}
		if r.Author != nil {
			v.Author = post.Author{
				Username: r.Author.Username,
				Avatar:   avatars.AvatarFor(r.Author, true),
			}
		}
		views = append(views, v)
	}
	return views
}
