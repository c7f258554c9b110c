// Package social defines the entities of the social graph and the Store
// contract every persistence backend implements.
package social

import (
	"context"
	"errors"
	"time"
)

// ContentMaxLen bounds the length of a post's content.
const ContentMaxLen = 500

// DefaultFeedLimit is the number of feed items returned when the caller
// does not ask for a specific limit.
const DefaultFeedLimit = 20

var (
	// ErrNotFound is returned when an operation references a user or post
	// that does not exist and the operation requires it to.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when creating a user with a username
	// that is already in use.
	ErrUsernameTaken = errors.New("username already taken")
)

// NewUser carries the caller-supplied fields for user creation. Name and
// Bio are optional.
type NewUser struct {
	Username string
	Name     string
	Bio      string
}

// User is a user node. ID and CreatedAt are generated by the store at
// creation time; users are never updated or deleted.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
}

// Profile is a user together with its relationship counts, each counting
// distinct adjacent nodes.
type Profile struct {
	User
	FollowingCount int64 `json:"following_count"`
	FollowersCount int64 `json:"followers_count"`
	PostsCount     int64 `json:"posts_count"`
}

// Post is a post node together with its author. Every post has exactly one
// author, established atomically at creation.
type Post struct {
	ID             string    `json:"id"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostDetail is a post with its distinct-liker count.
type PostDetail struct {
	Post
	Likes int64 `json:"likes"`
}

// Store is the persistence contract for the social graph. Implementations
// must treat FOLLOWS and LIKED edges as merge-on-existence: creating an
// edge that already exists is a no-op, never a duplicate and never an
// error. All entities are append-only; only FOLLOWS edges are removable.
type Store interface {
	// CreateUser inserts a user node with a fresh id and timestamp.
	// Returns ErrUsernameTaken if the username is already in use.
	CreateUser(ctx context.Context, u NewUser) (*User, error)

	// UserByUsername returns the user plus following/followers/posts
	// counts, or ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*Profile, error)

	// Follow ensures a FOLLOWS edge from follower to followee. Both users
	// must exist; otherwise ErrNotFound and no edge is created.
	Follow(ctx context.Context, follower, followee string) error

	// Unfollow removes the FOLLOWS edge if present. Removing a
	// non-existent edge is not an error.
	Unfollow(ctx context.Context, follower, followee string) error

	// CreatePost creates a post node and its authorship edge atomically.
	// Returns ErrNotFound if the author does not exist.
	CreatePost(ctx context.Context, author, content string) (*Post, error)

	// PostByID returns the post with its author and like count, or
	// ErrNotFound.
	PostByID(ctx context.Context, id string) (*PostDetail, error)

	// Like ensures a LIKED edge from the user to the post. Both must
	// exist; otherwise ErrNotFound.
	Like(ctx context.Context, username, postID string) error

	// Feed returns up to limit posts authored by users the named user
	// follows, most recent first. An unknown username yields an empty
	// feed, not an error.
	Feed(ctx context.Context, username string, limit int) ([]Post, error)
}
