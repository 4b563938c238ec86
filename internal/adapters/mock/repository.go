package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"socialblog/internal/core/follower"
	"socialblog/internal/core/post"
	"socialblog/internal/core/user"
	userPort "socialblog/internal/ports/user"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository is an in-memory users collection.
type UserRepository struct {
	users map[bson.ObjectID]*user.User
	mutex sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[bson.ObjectID]*user.User)}
}

func (m *UserRepository) Create(_ context.Context, u *user.User) (*user.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, user.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	stored := *u
	m.users[u.ID] = &stored
	return u, nil
}

func (m *UserRepository) FindByID(_ context.Context, id bson.ObjectID) (*user.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *UserRepository) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]*user.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *UserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// PostRepository is an in-memory posts collection. Reads join against users
// the way the aggregation pipeline does.
type PostRepository struct {
	posts   map[bson.ObjectID]*post.Post
	users   *UserRepository
	avatars userPort.AvatarResolver
	mutex   sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

func NewPostRepository(users *UserRepository, avatars userPort.AvatarResolver) *PostRepository {
	return &PostRepository{
		posts:   make(map[bson.ObjectID]*post.Post),
		users:   users,
		avatars: avatars,
	}
}

// Get returns the stored document, bypassing the join.
func (m *PostRepository) Get(id bson.ObjectID) (*post.Post, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (m *PostRepository) Insert(_ context.Context, p *post.Post) (bson.ObjectID, error) {
	if m.Err != nil {
		return bson.NilObjectID, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	p.ID = bson.NewObjectID()
	stored := *p
	m.posts[p.ID] = &stored
	return p.ID, nil
}

func (m *PostRepository) FindByID(ctx context.Context, id, visitorID bson.ObjectID) (*post.PostView, error) {
	views, err := m.collect(ctx, visitorID, func(p *post.Post) bool { return p.ID == id }, nil)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, post.ErrNotFound
	}
	return views[0], nil
}

func (m *PostRepository) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*post.PostView, error) {
	return m.collect(ctx, bson.NilObjectID, func(p *post.Post) bool { return p.Author == authorID }, newestFirst)
}

func (m *PostRepository) FindByAuthors(ctx context.Context, authorIDs []bson.ObjectID) ([]*post.PostView, error) {
	set := make(map[bson.ObjectID]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		set[id] = struct{}{}
	}
	return m.collect(ctx, bson.NilObjectID, func(p *post.Post) bool {
		_, ok := set[p.Author]
		return ok
	}, newestFirst)
}

// Search matches posts containing any term word, most matches first.
func (m *PostRepository) Search(ctx context.Context, term string) ([]*post.PostView, error) {
	words := strings.Fields(strings.ToLower(term))
	score := func(v *post.PostView) int {
		text := strings.ToLower(v.Title + " " + v.Body)
		n := 0
		for _, w := range words {
			n += strings.Count(text, w)
		}
		return n
	}
	views, err := m.collect(ctx, bson.NilObjectID, func(p *post.Post) bool {
		text := strings.ToLower(p.Title + " " + p.Body)
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool { return score(views[i]) > score(views[j]) })
	return views, nil
}

func (m *PostRepository) CountByAuthor(_ context.Context, authorID bson.ObjectID) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var n int64
	for _, p := range m.posts {
		if p.Author == authorID {
			n++
		}
	}
	return n, nil
}

func (m *PostRepository) UpdateOwned(_ context.Context, id, authorID bson.ObjectID, title, body string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	p, ok := m.posts[id]
	if !ok || p.Author != authorID {
		return false, nil
	}
	p.Title, p.Body = title, body
	return true, nil
}

func (m *PostRepository) DeleteOwned(_ context.Context, id, authorID bson.ObjectID) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	p, ok := m.posts[id]
	if !ok || p.Author != authorID {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *PostRepository) IsOwner(_ context.Context, id, authorID bson.ObjectID) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	p, ok := m.posts[id]
	return ok && p.Author == authorID, nil
}

func newestFirst(a, b *post.PostView) bool { return a.CreatedDate.After(b.CreatedDate) }

func (m *PostRepository) collect(ctx context.Context, visitorID bson.ObjectID, keep func(*post.Post) bool, less func(a, b *post.PostView) bool) ([]*post.PostView, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	var matched []post.Post
	for _, p := range m.posts {
		if keep(p) {
			matched = append(matched, *p)
		}
	}
	m.mutex.RUnlock()

	views := make([]*post.PostView, 0, len(matched))
	for _, p := range matched {
		v := &post.PostView{
			ID:             p.ID,
			Title:          p.Title,
			Body:           p.Body,
			CreatedDate:    p.CreatedDate,
			AuthorID:       p.Author,
			IsVisitorOwner: !visitorID.IsZero() && p.Author == visitorID,
		}
		if u, err := m.users.FindByID(ctx, p.Author); err == nil {
			v.Author = post.Author{Username: u.Username, Avatar: m.avatars.AvatarFor(u, true)}
		}
		views = append(views, v)
	}
	if less != nil {
		sort.SliceStable(views, func(i, j int) bool { return less(views[i], views[j]) })
	}
	return views, nil
}

// FollowerRepository is an in-memory follows collection. Unique rejects
// duplicate edges the way the unique index does.
type FollowerRepository struct {
	edges  []*follower.Follow
	Unique bool
	mutex  sync.RWMutex
}

func NewFollowerRepository() *FollowerRepository {
	return &FollowerRepository{}
}

func (m *FollowerRepository) FollowUser(_ context.Context, f *follower.Follow) (*follower.Follow, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Unique {
		for _, e := range m.edges {
			if e.AuthorID == f.AuthorID && e.FollowedID == f.FollowedID {
				return nil, follower.ErrAlreadyFollowing
			}
		}
	}
	f.ID = bson.NewObjectID()
	stored := *f
	m.edges = append(m.edges, &stored)
	return f, nil
}

func (m *FollowerRepository) UnfollowUser(_ context.Context, authorID, followedID bson.ObjectID) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, e := range m.edges {
		if e.AuthorID == authorID && e.FollowedID == followedID {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *FollowerRepository) IsFollowing(_ context.Context, authorID, followedID bson.ObjectID) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, e := range m.edges {
		if e.AuthorID == authorID && e.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *FollowerRepository) FollowedIDs(ctx context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error) {
	return m.GetFollowing(ctx, authorID)
}

func (m *FollowerRepository) GetFollowers(_ context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	return m.pick(func(e *follower.Follow) (bson.ObjectID, bool) { return e.AuthorID, e.FollowedID == userID }), nil
}

func (m *FollowerRepository) GetFollowing(_ context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	return m.pick(func(e *follower.Follow) (bson.ObjectID, bool) { return e.FollowedID, e.AuthorID == userID }), nil
}

func (m *FollowerRepository) CountFollowers(_ context.Context, userID bson.ObjectID) (int64, error) {
	return m.count(func(e *follower.Follow) bool { return e.FollowedID == userID }), nil
}

func (m *FollowerRepository) CountFollowing(_ context.Context, userID bson.ObjectID) (int64, error) {
	return m.count(func(e *follower.Follow) bool { return e.AuthorID == userID }), nil
}

func (m *FollowerRepository) pick(f func(*follower.Follow) (bson.ObjectID, bool)) []bson.ObjectID {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	seen := make(map[bson.ObjectID]struct{})
	ids := []bson.ObjectID{}
	for _, e := range m.edges {
		id, ok := f(e)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (m *FollowerRepository) count(match func(*follower.Follow) bool) int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var n int64
	for _, e := range m.edges {
		if match(e) {
			n++
		}
	}
	return n
}

// TokenRevoker is an in-memory revocation list.
type TokenRevoker struct {
	revoked map[string]time.Time
	mutex   sync.Mutex
}

func NewTokenRevoker() *TokenRevoker {
	return &TokenRevoker{revoked: make(map[string]time.Time)}
}

func (m *TokenRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (m *TokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	until, ok := m.revoked[jti]
	return ok && time.Now().Before(until), nil
}
