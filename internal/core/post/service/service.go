package postapp

import (
	"context"
	"fmt"
	"time"

	postEntity "socialblog/internal/core/post"
	followerPort "socialblog/internal/ports/follower"
	postPort "socialblog/internal/ports/post"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type PostService struct {
	PostRepository     postPort.PostRepository
	FollowerRepository followerPort.FollowerRepository // برای گرفتن followed ids در feed
	Sanitizer          postPort.Sanitizer

	logger *zap.Logger
	now    func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	followerRepo followerPort.FollowerRepository,
	sanitizer postPort.Sanitizer,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:     postRepo,
		FollowerRepository: followerRepo,
		Sanitizer:          sanitizer,
		logger:             logger,
		now:                time.Now,
	}
}

// CreatePost cleans and validates the input and stores a new post. It returns
// the hex id of the post.
func (s *PostService) CreatePost(ctx context.Context, in postEntity.Input, authorID string) (string, error) {
	aid, err := bson.ObjectIDFromHex(authorID)
	if err != nil {
		return "", fmt.Errorf("invalid author id %q: %w", authorID, postEntity.ErrInvalidInput)
	}

	p := postEntity.Clean(in, s.Sanitizer.Strip, aid, s.now())
	if msgs := p.Validate(); len(msgs) > 0 {
		return "", &postEntity.ValidationError{Messages: msgs}
	}

	id, err := s.PostRepository.Insert(ctx, p)
	if err != nil {
		s.logger.Error("Failed to create post", zap.String("authorID", authorID), zap.Error(err))
		return "", &postEntity.ValidationError{Messages: []string{postEntity.MsgTryLater}, Err: err}
	}

	s.logger.Info("Created post", zap.String("postID", id.Hex()), zap.String("authorID", authorID))
	return id.Hex(), nil
}

// UpdatePost replaces title and body of a post owned by userID. Anyone but the
// owner gets ErrForbiddenOrMissing, whatever the payload. The owner gets a
// failure result, not an error, when the payload is invalid.
func (s *PostService) UpdatePost(ctx context.Context, postID string, in postEntity.Input, userID string) (*postEntity.UpdateResult, error) {
	pid, uid, ok := parseOwned(postID, userID)
	if !ok {
		return nil, postEntity.ErrForbiddenOrMissing
	}

	p := postEntity.Clean(in, s.Sanitizer.Strip, uid, s.now())
	if msgs := p.Validate(); len(msgs) > 0 {
		owner, err := s.PostRepository.IsOwner(ctx, pid, uid)
		if err != nil {
			return nil, fmt.Errorf("check post owner: %w", err)
		}
		if !owner {
			return nil, postEntity.ErrForbiddenOrMissing
		}
		return &postEntity.UpdateResult{Status: postEntity.UpdateFailure, Errors: msgs}, nil
	}

	matched, err := s.PostRepository.UpdateOwned(ctx, pid, uid, p.Title, p.Body)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if !matched {
		return nil, postEntity.ErrForbiddenOrMissing
	}
	return &postEntity.UpdateResult{Status: postEntity.UpdateSuccess}, nil
}

// DeletePost removes a post owned by callerID.
func (s *PostService) DeletePost(ctx context.Context, postID, callerID string) error {
	pid, uid, ok := parseOwned(postID, callerID)
	if !ok {
		return postEntity.ErrForbiddenOrMissing
	}

	deleted, err := s.PostRepository.DeleteOwned(ctx, pid, uid)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		return postEntity.ErrForbiddenOrMissing
	}
	s.logger.Info("Deleted post", zap.String("postID", postID), zap.String("authorID", callerID))
	return nil
}

// FindSingleByID returns one post as seen by visitorID, which may be empty.
func (s *PostService) FindSingleByID(ctx context.Context, id, visitorID string) (*postEntity.PostView, error) {
	pid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, postEntity.ErrNotFound
	}
	return s.PostRepository.FindByID(ctx, pid, visitorObjectID(visitorID))
}

// FindByAuthorID lists an author's posts, newest first, without visitor context.
func (s *PostService) FindByAuthorID(ctx context.Context, authorID bson.ObjectID) ([]*postEntity.PostView, error) {
	posts, err := s.PostRepository.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("find posts by author: %w", err)
	}
	return nonNil(posts), nil
}

// Search runs a full-text search ordered by relevance. Only text is accepted.
func (s *PostService) Search(ctx context.Context, term any) ([]*postEntity.PostView, error) {
	text, ok := term.(string)
	if !ok {
		return nil, postEntity.ErrInvalidInput
	}
	posts, err := s.PostRepository.Search(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return nonNil(posts), nil
}

func (s *PostService) CountPostsByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error) {
	n, err := s.PostRepository.CountByAuthor(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// GetFeed returns posts by everyone userID follows, newest first.
func (s *PostService) GetFeed(ctx context.Context, userID string) ([]*postEntity.PostView, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, postEntity.ErrInvalidInput)
	}

	followed, err := s.FollowerRepository.FollowedIDs(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get followed ids: %w", err)
	}
	if len(followed) == 0 {
		return []*postEntity.PostView{}, nil
	}

	posts, err := s.PostRepository.FindByAuthors(ctx, followed)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return nonNil(posts), nil
}

func parseOwned(postID, userID string) (bson.ObjectID, bson.ObjectID, bool) {
	pid, err := bson.ObjectIDFromHex(postID)
	if err != nil {
		return bson.NilObjectID, bson.NilObjectID, false
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return bson.NilObjectID, bson.NilObjectID, false
	}
	return pid, uid, true
}

// visitorObjectID maps an absent or malformed visitor to the zero id.
func visitorObjectID(visitorID string) bson.ObjectID {
	vid, err := bson.ObjectIDFromHex(visitorID)
	if err != nil {
		return bson.NilObjectID
	}
	return vid
}

func nonNil(posts []*postEntity.PostView) []*postEntity.PostView {
	if posts == nil {
		return []*postEntity.PostView{}
	}
	return posts
}
