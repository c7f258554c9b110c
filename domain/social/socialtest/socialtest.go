// Package socialtest provides a re-usable set of store-level tests that can
// be executed against any type that implements social.Store.
package socialtest

import (
	"context"
	"testing"

	"socialgraph/domain/social"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Suite defines the shared acceptance tests for a social.Store
// implementation.
type Suite struct {
	Store social.Store

	// Optional hooks, run around every test.
	BeforeEach func(*testing.T)
	AfterEach  func(*testing.T)
}

func (s *Suite) TestStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*testing.T, social.Store)
	}{
		{"Create user", TestCreateUser},
		{"Duplicate username", TestDuplicateUsername},
		{"User lookup", TestUserByUsername},
		{"Follow idempotence", TestFollowIdempotence},
		{"Follow missing user", TestFollowMissingUser},
		{"Unfollow", TestUnfollow},
		{"Create post", TestCreatePost},
		{"Post lookup", TestPostByID},
		{"Like idempotence", TestLikeIdempotence},
		{"Like missing user or post", TestLikeMissing},
		{"Feed ordering and limit", TestFeedOrderingAndLimit},
		{"Feed without followees", TestFeedEmpty},
	}

	if s.BeforeEach == nil {
		s.BeforeEach = func(t *testing.T) {}
	}
	if s.AfterEach == nil {
		s.AfterEach = func(t *testing.T) {}
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s.BeforeEach(t)
			test.fn(t, s.Store)
			s.AfterEach(t)
		})
	}
}

func mustCreateUser(t *testing.T, st social.Store, username string) *social.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), social.NewUser{Username: username})
	require.NoError(t, err)
	return u
}

func mustCreatePost(t *testing.T, st social.Store, author, content string) *social.Post {
	t.Helper()
	p, err := st.CreatePost(context.Background(), author, content)
	require.NoError(t, err)
	return p
}

func TestCreateUser(t *testing.T, st social.Store) {
	ctx := context.Background()

	u, err := st.CreateUser(ctx, social.NewUser{
		Username: "alice",
		Name:     "Alice",
		Bio:      "hello",
	})
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "hello", u.Bio)
}

func TestDuplicateUsername(t *testing.T, st social.Store) {
	ctx := context.Background()

	_, err := st.CreateUser(ctx, social.NewUser{Username: "alice"})
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, social.NewUser{Username: "alice"})
	require.ErrorIs(t, err, social.ErrUsernameTaken)
}

func TestUserByUsername(t *testing.T, st social.Store) {
	ctx := context.Background()

	_, err := st.UserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, social.ErrNotFound)

	alice := mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")
	mustCreateUser(t, st, "carol")

	require.NoError(t, st.Follow(ctx, "bob", "alice"))
	require.NoError(t, st.Follow(ctx, "carol", "alice"))
	require.NoError(t, st.Follow(ctx, "alice", "bob"))
	mustCreatePost(t, st, "alice", "first")
	mustCreatePost(t, st, "alice", "second")

	profile, err := st.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.ID)
	assert.Equal(t, int64(1), profile.FollowingCount)
	assert.Equal(t, int64(2), profile.FollowersCount)
	assert.Equal(t, int64(2), profile.PostsCount)
}

func TestFollowIdempotence(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")

	require.NoError(t, st.Follow(ctx, "bob", "alice"))
	require.NoError(t, st.Follow(ctx, "bob", "alice"))

	profile, err := st.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowersCount)

	profile, err = st.UserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowingCount)
}

func TestFollowMissingUser(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "alice")

	require.ErrorIs(t, st.Follow(ctx, "alice", "ghost"), social.ErrNotFound)
	require.ErrorIs(t, st.Follow(ctx, "ghost", "alice"), social.ErrNotFound)

	profile, err := st.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, profile.FollowingCount)
	assert.Zero(t, profile.FollowersCount)
}

func TestUnfollow(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")

	// Removing an edge that was never created is a no-op.
	require.NoError(t, st.Unfollow(ctx, "bob", "alice"))

	require.NoError(t, st.Follow(ctx, "bob", "alice"))
	require.NoError(t, st.Unfollow(ctx, "bob", "alice"))

	profile, err := st.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, profile.FollowersCount)

	// Repeated removal stays a no-op.
	require.NoError(t, st.Unfollow(ctx, "bob", "alice"))
}

func TestCreatePost(t *testing.T, st social.Store) {
	ctx := context.Background()

	_, err := st.CreatePost(ctx, "ghost", "boo")
	require.ErrorIs(t, err, social.ErrNotFound)

	mustCreateUser(t, st, "alice")
	p, err := st.CreatePost(ctx, "alice", "hello world")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "alice", p.AuthorUsername)
	assert.Equal(t, "hello world", p.Content)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestPostByID(t *testing.T, st social.Store) {
	ctx := context.Background()

	_, err := st.PostByID(ctx, "does-not-exist")
	require.ErrorIs(t, err, social.ErrNotFound)

	mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")
	p := mustCreatePost(t, st, "alice", "hello world")

	detail, err := st.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.ID)
	assert.Equal(t, "alice", detail.AuthorUsername)
	assert.Equal(t, "hello world", detail.Content)
	assert.Zero(t, detail.Likes)

	require.NoError(t, st.Like(ctx, "bob", p.ID))
	detail, err = st.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Likes)
}

func TestLikeIdempotence(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")
	mustCreateUser(t, st, "carol")
	p := mustCreatePost(t, st, "alice", "hello")

	require.NoError(t, st.Like(ctx, "bob", p.ID))
	require.NoError(t, st.Like(ctx, "bob", p.ID))
	require.NoError(t, st.Like(ctx, "carol", p.ID))

	detail, err := st.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Likes)
}

func TestLikeMissing(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "alice")
	p := mustCreatePost(t, st, "alice", "hello")

	require.ErrorIs(t, st.Like(ctx, "ghost", p.ID), social.ErrNotFound)
	require.ErrorIs(t, st.Like(ctx, "alice", "no-such-post"), social.ErrNotFound)
}

func TestFeedOrderingAndLimit(t *testing.T, st social.Store) {
	ctx := context.Background()
	mustCreateUser(t, st, "reader")
	mustCreateUser(t, st, "alice")
	mustCreateUser(t, st, "bob")

	require.NoError(t, st.Follow(ctx, "reader", "alice"))
	require.NoError(t, st.Follow(ctx, "reader", "bob"))

	// The reader's own posts must never show up in their feed.
	mustCreatePost(t, st, "reader", "mine")

	var ids []string
	for _, author := range []string{"alice", "bob", "alice", "bob", "alice"} {
		p := mustCreatePost(t, st, author, "post")
		ids = append(ids, p.ID)
	}

	feed, err := st.Feed(ctx, "reader", 10)
	require.NoError(t, err)
	require.Len(t, feed, 5)

	// Most recent first.
	for i, post := range feed {
		assert.Equal(t, ids[len(ids)-1-i], post.ID)
		assert.NotEqual(t, "reader", post.AuthorUsername)
	}
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i-1].CreatedAt.Before(feed[i].CreatedAt))
	}

	feed, err = st.Feed(ctx, "reader", 3)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, ids[4], feed[0].ID)
}

func TestFeedEmpty(t *testing.T, st social.Store) {
	ctx := context.Background()

	// A user with no followees has an empty feed.
	mustCreateUser(t, st, "loner")
	mustCreatePost(t, st, "loner", "talking to myself")
	feed, err := st.Feed(ctx, "loner", 10)
	require.NoError(t, err)
	assert.Empty(t, feed)

	// An unknown username is indistinguishable from one with no
	// followees: empty feed, no error.
	feed, err = st.Feed(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
