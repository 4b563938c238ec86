package followerapp

import (
	"context"
	"errors"
	"fmt"

	followerEntity "socialblog/internal/core/follower"
	userEntity "socialblog/internal/core/user"
	followerPort "socialblog/internal/ports/follower"
	userPort "socialblog/internal/ports/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Avatars            userPort.AvatarResolver
	Policy             followerEntity.Policy

	logger *zap.Logger
}

func NewFollowerService(
	repo followerPort.FollowerRepository,
	users userPort.UserRepository,
	avatars userPort.AvatarResolver,
	policy followerEntity.Policy,
	logger *zap.Logger,
) *FollowerService {
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     users,
		Avatars:            avatars,
		Policy:             policy,
		logger:             logger,
	}
}

// FollowUser makes followerID follow the user named username.
func (s *FollowerService) FollowUser(ctx context.Context, followerID, username string) error {
	fid, err := bson.ObjectIDFromHex(followerID)
	if err != nil {
		return fmt.Errorf("invalid follower id: %w", err)
	}

	target, err := s.UserRepository.FindByUsername(ctx, username)
	if errors.Is(err, userEntity.ErrNotFound) {
		return &followerEntity.ValidationError{Messages: []string{followerEntity.MsgUnknownUser}}
	}
	if err != nil {
		return fmt.Errorf("find followed user: %w", err)
	}

	var msgs []string
	if !s.Policy.AllowSelfFollow && target.ID == fid {
		s.logger.Warn("Cannot follow yourself", zap.String("userID", followerID))
		msgs = append(msgs, followerEntity.MsgSelfFollow)
	}
	if !s.Policy.AllowDuplicates {
		following, err := s.FollowerRepository.IsFollowing(ctx, fid, target.ID)
		if err != nil {
			return fmt.Errorf("check follow: %w", err)
		}
		if following {
			msgs = append(msgs, followerEntity.MsgAlreadyFollowing)
		}
	}
	if len(msgs) > 0 {
		return &followerEntity.ValidationError{Messages: msgs}
	}

	_, err = s.FollowerRepository.FollowUser(ctx, &followerEntity.Follow{
		AuthorID:   fid,
		FollowedID: target.ID,
	})
	if errors.Is(err, followerEntity.ErrAlreadyFollowing) {
		// lost a race against a concurrent follow; the unique index caught it
		return &followerEntity.ValidationError{Messages: []string{followerEntity.MsgAlreadyFollowing}}
	}
	if err != nil {
		return fmt.Errorf("follow user: %w", err)
	}
	return nil
}

// UnfollowUser removes one edge from followerID to the user named username.
func (s *FollowerService) UnfollowUser(ctx context.Context, followerID, username string) error {
	fid, err := bson.ObjectIDFromHex(followerID)
	if err != nil {
		return fmt.Errorf("invalid follower id: %w", err)
	}

	target, err := s.UserRepository.FindByUsername(ctx, username)
	if errors.Is(err, userEntity.ErrNotFound) {
		return &followerEntity.ValidationError{Messages: []string{followerEntity.MsgUnknownUser}}
	}
	if err != nil {
		return fmt.Errorf("find followed user: %w", err)
	}

	removed, err := s.FollowerRepository.UnfollowUser(ctx, fid, target.ID)
	if err != nil {
		return fmt.Errorf("unfollow user: %w", err)
	}
	if !removed {
		return &followerEntity.ValidationError{Messages: []string{followerEntity.MsgNotFollowing}}
	}
	return nil
}

// IsFollowing reports whether visitorID follows userID. An empty visitor
// follows nobody.
func (s *FollowerService) IsFollowing(ctx context.Context, visitorID string, userID bson.ObjectID) (bool, error) {
	vid, err := bson.ObjectIDFromHex(visitorID)
	if err != nil {
		return false, nil
	}
	return s.FollowerRepository.IsFollowing(ctx, vid, userID)
}

func (s *FollowerService) GetFollowers(ctx context.Context, userID bson.ObjectID) ([]*followerPort.FollowDTO, error) {
	ids, err := s.FollowerRepository.GetFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get followers: %w", err)
	}
	return s.summaries(ctx, ids)
}

func (s *FollowerService) GetFollowing(ctx context.Context, userID bson.ObjectID) ([]*followerPort.FollowDTO, error) {
	ids, err := s.FollowerRepository.GetFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get following: %w", err)
	}
	return s.summaries(ctx, ids)
}

func (s *FollowerService) CountFollowers(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return s.FollowerRepository.CountFollowers(ctx, userID)
}

func (s *FollowerService) CountFollowing(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return s.FollowerRepository.CountFollowing(ctx, userID)
}

// summaries resolves ids to {username, avatar} keeping the order of ids.
func (s *FollowerService) summaries(ctx context.Context, ids []bson.ObjectID) ([]*followerPort.FollowDTO, error) {
	// اگر slice خالی بود، مقداردهی به یک آرایه خالی
	out := []*followerPort.FollowDTO{}
	if len(ids) == 0 {
		return out, nil
	}

	users, err := s.UserRepository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	byID := make(map[bson.ObjectID]*userEntity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, &followerPort.FollowDTO{
			ID:       u.ID.Hex(),
			Username: u.Username,
			Avatar:   s.Avatars.AvatarFor(u, true),
		})
	}
	return out, nil
}
