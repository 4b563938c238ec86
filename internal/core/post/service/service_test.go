package postapp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"socialblog/internal/adapters/mock"
	"socialblog/internal/core/follower"
	postEntity "socialblog/internal/core/post"
	"socialblog/internal/core/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// tagStripper removes anything between angle brackets.
type tagStripper struct{}

func (tagStripper) Strip(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type env struct {
	svc     *PostService
	posts   *mock.PostRepository
	users   *mock.UserRepository
	follows *mock.FollowerRepository
	clock   time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := mock.NewUserRepository()
	posts := mock.NewPostRepository(users, user.Gravatar{})
	follows := mock.NewFollowerRepository()

	e := &env{
		svc:     NewPostService(posts, follows, tagStripper{}, zap.NewNop()),
		posts:   posts,
		users:   users,
		follows: follows,
		clock:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	e.svc.now = func() time.Time {
		e.clock = e.clock.Add(time.Minute)
		return e.clock
	}
	return e
}

func (e *env) addUser(t *testing.T, name string) bson.ObjectID {
	t.Helper()
	u, err := e.users.Create(context.Background(), &user.User{
		Username:  name,
		Email:     name + "@example.com",
		EmailHash: user.HashEmail(name + "@example.com"),
	})
	require.NoError(t, err)
	return u.ID
}

func (e *env) addPost(t *testing.T, author bson.ObjectID, title string) string {
	t.Helper()
	id, err := e.svc.CreatePost(context.Background(), postEntity.Input{Title: title, Body: "body of " + title}, author.Hex())
	require.NoError(t, err)
	return id
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and strips markup", func(t *testing.T) {
		e := newEnv(t)
		author := e.addUser(t, "alice")

		id, err := e.svc.CreatePost(ctx, postEntity.Input{Title: "  Hello  ", Body: "<b>World</b>"}, author.Hex())
		require.NoError(t, err)

		oid, err := bson.ObjectIDFromHex(id)
		require.NoError(t, err)
		stored, ok := e.posts.Get(oid)
		require.True(t, ok)
		assert.Equal(t, "Hello", stored.Title)
		assert.Equal(t, "World", stored.Body)
		assert.Equal(t, author, stored.Author)
		assert.False(t, stored.CreatedDate.IsZero())
	})

	t.Run("empty title and body give two ordered errors", func(t *testing.T) {
		e := newEnv(t)
		author := e.addUser(t, "alice")

		_, err := e.svc.CreatePost(ctx, postEntity.Input{Title: "", Body: ""}, author.Hex())

		var verr *postEntity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{postEntity.MsgTitleRequired, postEntity.MsgBodyRequired}, verr.Messages)
	})

	t.Run("non-string fields are treated as empty", func(t *testing.T) {
		e := newEnv(t)
		author := e.addUser(t, "alice")

		_, err := e.svc.CreatePost(ctx, postEntity.Input{Title: 12, Body: []string{"x"}}, author.Hex())

		var verr *postEntity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Messages, 2)
	})

	t.Run("store failure asks to try later", func(t *testing.T) {
		e := newEnv(t)
		author := e.addUser(t, "alice")
		storeErr := errors.New("connection refused")
		e.posts.Err = storeErr

		_, err := e.svc.CreatePost(ctx, postEntity.Input{Title: "t", Body: "b"}, author.Hex())

		var verr *postEntity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{postEntity.MsgTryLater}, verr.Messages)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestFindSingleByIDOwnership(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.addUser(t, "alice")
	bob := e.addUser(t, "bob")
	id := e.addPost(t, alice, "first")

	view, err := e.svc.FindSingleByID(ctx, id, alice.Hex())
	require.NoError(t, err)
	assert.True(t, view.IsVisitorOwner)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, "https://gravatar.com/avatar/"+user.HashEmail("alice@example.com")+"?s=128", view.Author.Avatar)

	view, err = e.svc.FindSingleByID(ctx, id, bob.Hex())
	require.NoError(t, err)
	assert.False(t, view.IsVisitorOwner)

	view, err = e.svc.FindSingleByID(ctx, id, "")
	require.NoError(t, err)
	assert.False(t, view.IsVisitorOwner)
}

func TestFindSingleByIDNotFound(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name string
		id   string
	}{
		{name: "malformed id", id: "not-an-id"},
		{name: "empty id", id: ""},
		{name: "unknown id", id: bson.NewObjectID().Hex()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.FindSingleByID(ctx, tt.id, "")
			assert.ErrorIs(t, err, postEntity.ErrNotFound)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*env, bson.ObjectID, bson.ObjectID, string) {
		e := newEnv(t)
		alice := e.addUser(t, "alice")
		bob := e.addUser(t, "bob")
		return e, alice, bob, e.addPost(t, alice, "original")
	}

	t.Run("non-owner is rejected for valid and invalid payloads", func(t *testing.T) {
		e, _, bob, id := setup(t)

		for _, in := range []postEntity.Input{
			{Title: "new", Body: "new"},
			{Title: "", Body: ""},
		} {
			res, err := e.svc.UpdatePost(ctx, id, in, bob.Hex())
			assert.ErrorIs(t, err, postEntity.ErrForbiddenOrMissing)
			assert.Nil(t, res)
		}

		view, err := e.svc.FindSingleByID(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, "original", view.Title)
	})

	t.Run("owner with invalid payload gets failure and nothing changes", func(t *testing.T) {
		e, alice, _, id := setup(t)

		res, err := e.svc.UpdatePost(ctx, id, postEntity.Input{Title: "  ", Body: "changed"}, alice.Hex())
		require.NoError(t, err)
		assert.Equal(t, postEntity.UpdateFailure, res.Status)
		assert.Equal(t, []string{postEntity.MsgTitleRequired}, res.Errors)

		view, err := e.svc.FindSingleByID(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, "original", view.Title)
		assert.Equal(t, "body of original", view.Body)
	})

	t.Run("owner with valid payload updates title and body only", func(t *testing.T) {
		e, alice, _, id := setup(t)
		before, err := e.svc.FindSingleByID(ctx, id, "")
		require.NoError(t, err)

		res, err := e.svc.UpdatePost(ctx, id, postEntity.Input{Title: "<i>New</i>", Body: " text "}, alice.Hex())
		require.NoError(t, err)
		assert.Equal(t, postEntity.UpdateSuccess, res.Status)

		after, err := e.svc.FindSingleByID(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, "New", after.Title)
		assert.Equal(t, "text", after.Body)
		assert.Equal(t, before.CreatedDate, after.CreatedDate)
		assert.Equal(t, alice, after.AuthorID)
	})

	t.Run("missing post looks like forbidden", func(t *testing.T) {
		e, alice, _, _ := setup(t)

		_, err := e.svc.UpdatePost(ctx, bson.NewObjectID().Hex(), postEntity.Input{Title: "a", Body: "b"}, alice.Hex())
		assert.ErrorIs(t, err, postEntity.ErrForbiddenOrMissing)

		_, err = e.svc.UpdatePost(ctx, "garbage", postEntity.Input{Title: "a", Body: "b"}, alice.Hex())
		assert.ErrorIs(t, err, postEntity.ErrForbiddenOrMissing)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.addUser(t, "alice")
	bob := e.addUser(t, "bob")
	id := e.addPost(t, alice, "doomed")

	err := e.svc.DeletePost(ctx, id, bob.Hex())
	assert.ErrorIs(t, err, postEntity.ErrForbiddenOrMissing)

	_, err = e.svc.FindSingleByID(ctx, id, "")
	require.NoError(t, err, "post must survive a non-owner delete")

	require.NoError(t, e.svc.DeletePost(ctx, id, alice.Hex()))

	_, err = e.svc.FindSingleByID(ctx, id, alice.Hex())
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	err = e.svc.DeletePost(ctx, id, alice.Hex())
	assert.ErrorIs(t, err, postEntity.ErrForbiddenOrMissing)
}

func TestGetFeed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	reader := e.addUser(t, "reader")
	author := e.addUser(t, "author")
	other := e.addUser(t, "other")

	first := e.addPost(t, author, "first")
	second := e.addPost(t, author, "second")
	e.addPost(t, other, "unrelated")

	feed, err := e.svc.GetFeed(ctx, reader.Hex())
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)

	_, err = e.follows.FollowUser(ctx, &follower.Follow{AuthorID: reader, FollowedID: author})
	require.NoError(t, err)

	feed, err = e.svc.GetFeed(ctx, reader.Hex())
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second, feed[0].ID.Hex())
	assert.Equal(t, first, feed[1].ID.Hex())
	assert.True(t, feed[0].CreatedDate.After(feed[1].CreatedDate))
}

func TestFindByAuthorID(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.addUser(t, "alice")
	older := e.addPost(t, alice, "older")
	newer := e.addPost(t, alice, "newer")

	posts, err := e.svc.FindByAuthorID(ctx, alice)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer, posts[0].ID.Hex())
	assert.Equal(t, older, posts[1].ID.Hex())
	for _, p := range posts {
		assert.False(t, p.IsVisitorOwner)
	}

	n, err := e.svc.CountPostsByAuthor(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.addUser(t, "alice")
	e.addPost(t, alice, "gophers")

	t.Run("unknown term yields empty result", func(t *testing.T) {
		posts, err := e.svc.Search(ctx, "nonexistentterm12345")
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("match", func(t *testing.T) {
		posts, err := e.svc.Search(ctx, "gophers")
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("non-text term is invalid", func(t *testing.T) {
		for _, term := range []any{nil, 42, map[string]any{"$ne": ""}} {
			_, err := e.svc.Search(ctx, term)
			assert.ErrorIs(t, err, postEntity.ErrInvalidInput)
		}
	})
}
