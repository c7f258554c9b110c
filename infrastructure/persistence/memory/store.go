// Package memory provides an in-memory social.Store. It backs handler
// tests and mirrors the graph store's semantics, including merge-on-
// existence edges and the lenient unfollow and feed behaviors.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"socialgraph/domain/social"

	"github.com/google/uuid"
)

type post struct {
	social.Post
	seq int64 // insertion order, breaks created_at ties deterministically
}

// Store keeps the whole graph behind a single RWMutex.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*social.User    // username -> user
	posts   map[string]*post           // post id -> post
	follows map[string]map[string]bool // follower -> followees
	likes   map[string]map[string]bool // post id -> liking usernames
	seq     int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*social.User),
		posts:   make(map[string]*post),
		follows: make(map[string]map[string]bool),
		likes:   make(map[string]map[string]bool),
	}
}

var _ social.Store = (*Store)(nil)

func (s *Store) CreateUser(_ context.Context, u social.NewUser) (*social.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Username]; exists {
		return nil, fmt.Errorf("create user %q: %w", u.Username, social.ErrUsernameTaken)
	}

	user := &social.User{
		ID:       uuid.NewString(),
		Username: u.Username,
		Name:     u.Name,
		Bio:      u.Bio,
	}
	s.users[u.Username] = user

	out := *user
	return &out, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*social.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, social.ErrNotFound)
	}

	profile := &social.Profile{User: *user}
	profile.FollowingCount = int64(len(s.follows[username]))
	for _, followees := range s.follows {
		if followees[username] {
			profile.FollowersCount++
		}
	}
	for _, p := range s.posts {
		if p.AuthorUsername == username {
			profile.PostsCount++
		}
	}
	return profile, nil
}

func (s *Store) Follow(_ context.Context, follower, followee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[follower]; !ok {
		return fmt.Errorf("follow %q -> %q: %w", follower, followee, social.ErrNotFound)
	}
	if _, ok := s.users[followee]; !ok {
		return fmt.Errorf("follow %q -> %q: %w", follower, followee, social.ErrNotFound)
	}

	if s.follows[follower] == nil {
		s.follows[follower] = make(map[string]bool)
	}
	s.follows[follower][followee] = true
	return nil
}

func (s *Store) Unfollow(_ context.Context, follower, followee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deleting a missing edge, or naming missing users, is a no-op.
	delete(s.follows[follower], followee)
	return nil
}

func (s *Store) CreatePost(_ context.Context, author, content string) (*social.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[author]; !ok {
		return nil, fmt.Errorf("author %q: %w", author, social.ErrNotFound)
	}

	s.seq++
	p := &post{
		Post: social.Post{
			ID:             uuid.NewString(),
			AuthorUsername: author,
			Content:        content,
			CreatedAt:      time.Now().UTC(),
		},
		seq: s.seq,
	}
	s.posts[p.ID] = p

	out := p.Post
	return &out, nil
}

func (s *Store) PostByID(_ context.Context, id string) (*social.PostDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, social.ErrNotFound)
	}

	return &social.PostDetail{
		Post:  p.Post,
		Likes: int64(len(s.likes[id])),
	}, nil
}

func (s *Store) Like(_ context.Context, username, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		return fmt.Errorf("like %q -> %q: %w", username, postID, social.ErrNotFound)
	}
	if _, ok := s.posts[postID]; !ok {
		return fmt.Errorf("like %q -> %q: %w", username, postID, social.ErrNotFound)
	}

	if s.likes[postID] == nil {
		s.likes[postID] = make(map[string]bool)
	}
	s.likes[postID][username] = true
	return nil
}

func (s *Store) Feed(_ context.Context, username string, limit int) ([]social.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followees := s.follows[username]

	var matched []*post
	for _, p := range s.posts {
		if followees[p.AuthorUsername] {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	feed := make([]social.Post, 0, len(matched))
	for _, p := range matched {
		feed = append(feed, p.Post)
	}
	return feed, nil
}
