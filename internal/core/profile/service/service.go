package profileapp

import (
	"context"
	"fmt"

	postEntity "socialblog/internal/core/post"
	userEntity "socialblog/internal/core/user"
	followerPort "socialblog/internal/ports/follower"
	userPort "socialblog/internal/ports/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// PostReader is the part of the post service a profile needs.
type PostReader interface {
	FindByAuthorID(ctx context.Context, authorID bson.ObjectID) ([]*postEntity.PostView, error)
	CountPostsByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error)
}

// FollowReader is the part of the follower service a profile needs.
type FollowReader interface {
	IsFollowing(ctx context.Context, visitorID string, userID bson.ObjectID) (bool, error)
	GetFollowers(ctx context.Context, userID bson.ObjectID) ([]*followerPort.FollowDTO, error)
	GetFollowing(ctx context.Context, userID bson.ObjectID) ([]*followerPort.FollowDTO, error)
	CountFollowers(ctx context.Context, userID bson.ObjectID) (int64, error)
	CountFollowing(ctx context.Context, userID bson.ObjectID) (int64, error)
}

type Counts struct {
	PostCount      int64 `json:"postCount"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// Profile is the header shown on every profile page.
type Profile struct {
	Username          string `json:"profileUsername"`
	Avatar            string `json:"profileAvatar"`
	IsFollowing       bool   `json:"isFollowing"`
	IsVisitorsProfile bool   `json:"isVisitorsProfile"`
	Counts            Counts `json:"counts"`
}

type PostsPage struct {
	Profile
	Posts []*postEntity.PostView `json:"posts"`
}

type FollowersPage struct {
	Profile
	Followers []*followerPort.FollowDTO `json:"followers"`
}

type FollowingPage struct {
	Profile
	Following []*followerPort.FollowDTO `json:"following"`
}

type ProfileService struct {
	UserRepository userPort.UserRepository
	Avatars        userPort.AvatarResolver
	PostReader     PostReader
	FollowReader   FollowReader
}

func NewProfileService(users userPort.UserRepository, avatars userPort.AvatarResolver, posts PostReader, follows FollowReader) *ProfileService {
	return &ProfileService{
		UserRepository: users,
		Avatars:        avatars,
		PostReader:     posts,
		FollowReader:   follows,
	}
}

// Posts returns the profile header and the user's posts.
func (s *ProfileService) Posts(ctx context.Context, username, visitorID string) (*PostsPage, error) {
	u, profile, err := s.shared(ctx, username, visitorID)
	if err != nil {
		return nil, err
	}
	posts, err := s.PostReader.FindByAuthorID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &PostsPage{Profile: *profile, Posts: posts}, nil
}

func (s *ProfileService) Followers(ctx context.Context, username, visitorID string) (*FollowersPage, error) {
	u, profile, err := s.shared(ctx, username, visitorID)
	if err != nil {
		return nil, err
	}
	followers, err := s.FollowReader.GetFollowers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &FollowersPage{Profile: *profile, Followers: followers}, nil
}

func (s *ProfileService) Following(ctx context.Context, username, visitorID string) (*FollowingPage, error) {
	u, profile, err := s.shared(ctx, username, visitorID)
	if err != nil {
		return nil, err
	}
	following, err := s.FollowReader.GetFollowing(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &FollowingPage{Profile: *profile, Following: following}, nil
}

// shared resolves the profile user and gathers counts and visitor flags
// concurrently. It returns user.ErrNotFound for an unknown username.
func (s *ProfileService) shared(ctx context.Context, username, visitorID string) (*userEntity.User, *Profile, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	p := &Profile{
		Username:          u.Username,
		Avatar:            s.Avatars.AvatarFor(u, true),
		IsVisitorsProfile: visitorID != "" && visitorID == u.ID.Hex(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.PostReader.CountPostsByAuthor(gctx, u.ID)
		p.Counts.PostCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.FollowReader.CountFollowers(gctx, u.ID)
		p.Counts.FollowerCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.FollowReader.CountFollowing(gctx, u.ID)
		p.Counts.FollowingCount = n
		return err
	})
	if visitorID != "" {
		g.Go(func() error {
			ok, err := s.FollowReader.IsFollowing(gctx, visitorID, u.ID)
			p.IsFollowing = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load profile %q: %w", username, err)
	}
	return u, p, nil
}
