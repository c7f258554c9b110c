package neo4j

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialgraph/domain/social"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store implements social.Store with one Cypher query per operation.
type Store struct {
	exec Executor
}

// NewStore creates a store on top of an executor.
func NewStore(exec Executor) *Store {
	return &Store{exec: exec}
}

var _ social.Store = (*Store)(nil)

func (s *Store) CreateUser(ctx context.Context, u social.NewUser) (*social.User, error) {
	const query = `
		CREATE (u:User {id: $id, username: $username, name: $name, bio: $bio, created_at: $created_at})
		RETURN u.id AS id, u.username AS username, u.name AS name, u.bio AS bio`

	params := map[string]any{
		"id":         uuid.NewString(),
		"username":   u.Username,
		"name":       u.Name,
		"bio":        u.Bio,
		"created_at": time.Now().UTC(),
	}

	records, err := s.exec.Write(ctx, query, params)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("create user %q: %w", u.Username, social.ErrUsernameTaken)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("create user %q: no record returned", u.Username)
	}

	rec := records[0]
	return &social.User{
		ID:       recString(rec, "id"),
		Username: recString(rec, "username"),
		Name:     recString(rec, "name"),
		Bio:      recString(rec, "bio"),
	}, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*social.Profile, error) {
	const query = `
		MATCH (u:User {username: $username})
		OPTIONAL MATCH (u)-[:FOLLOWS]->(f:User)
		OPTIONAL MATCH (g:User)-[:FOLLOWS]->(u)
		OPTIONAL MATCH (u)-[:POSTED]->(p:Post)
		RETURN u.id AS id, u.username AS username, u.name AS name, u.bio AS bio,
		       count(DISTINCT f) AS following_count, count(DISTINCT g) AS followers_count,
		       count(DISTINCT p) AS posts_count`

	records, err := s.exec.Read(ctx, query, map[string]any{"username": username})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("user %q: %w", username, social.ErrNotFound)
	}

	rec := records[0]
	return &social.Profile{
		User: social.User{
			ID:       recString(rec, "id"),
			Username: recString(rec, "username"),
			Name:     recString(rec, "name"),
			Bio:      recString(rec, "bio"),
		},
		FollowingCount: recInt64(rec, "following_count"),
		FollowersCount: recInt64(rec, "followers_count"),
		PostsCount:     recInt64(rec, "posts_count"),
	}, nil
}

func (s *Store) Follow(ctx context.Context, follower, followee string) error {
	// MERGE leaves exactly one edge per ordered pair no matter how many
	// times follow is called.
	const query = `
		MATCH (a:User {username: $follower}), (b:User {username: $followee})
		MERGE (a)-[:FOLLOWS]->(b)
		RETURN a.username AS follower, b.username AS followee`

	records, err := s.exec.Write(ctx, query, map[string]any{
		"follower": follower,
		"followee": followee,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("follow %q -> %q: %w", follower, followee, social.ErrNotFound)
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, follower, followee string) error {
	// No match means no edge to delete; that is a success, not an error.
	const query = `
		MATCH (a:User {username: $follower})-[r:FOLLOWS]->(b:User {username: $followee})
		DELETE r`

	_, err := s.exec.Write(ctx, query, map[string]any{
		"follower": follower,
		"followee": followee,
	})
	return err
}

func (s *Store) CreatePost(ctx context.Context, author, content string) (*social.Post, error) {
	// Post node and authorship edge are created in a single query so a
	// post can never exist without its author.
	const query = `
		MATCH (a:User {username: $author_username})
		CREATE (p:Post {id: $id, content: $content, created_at: $created_at})
		CREATE (a)-[:POSTED]->(p)
		RETURN p.id AS id, a.username AS author_username, p.content AS content, p.created_at AS created_at`

	params := map[string]any{
		"id":              uuid.NewString(),
		"content":         content,
		"author_username": author,
		"created_at":      time.Now().UTC(),
	}

	records, err := s.exec.Write(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("author %q: %w", author, social.ErrNotFound)
	}

	return postFromRecord(records[0])
}

func (s *Store) PostByID(ctx context.Context, id string) (*social.PostDetail, error) {
	const query = `
		MATCH (p:Post {id: $id})<-[:POSTED]-(a:User)
		OPTIONAL MATCH (u:User)-[:LIKED]->(p)
		RETURN p.id AS id, a.username AS author_username, p.content AS content,
		       p.created_at AS created_at, count(DISTINCT u) AS likes`

	records, err := s.exec.Read(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("post %q: %w", id, social.ErrNotFound)
	}

	post, err := postFromRecord(records[0])
	if err != nil {
		return nil, err
	}
	return &social.PostDetail{
		Post:  *post,
		Likes: recInt64(records[0], "likes"),
	}, nil
}

func (s *Store) Like(ctx context.Context, username, postID string) error {
	const query = `
		MATCH (u:User {username: $username}), (p:Post {id: $post_id})
		MERGE (u)-[:LIKED]->(p)
		RETURN u.username AS username, p.id AS post_id`

	records, err := s.exec.Write(ctx, query, map[string]any{
		"username": username,
		"post_id":  postID,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("like %q -> %q: %w", username, postID, social.ErrNotFound)
	}
	return nil
}

func (s *Store) Feed(ctx context.Context, username string, limit int) ([]social.Post, error) {
	// An unknown username simply matches nothing; the traversal does not
	// distinguish it from a user with no followees.
	const query = `
		MATCH (me:User {username: $username})-[:FOLLOWS]->(other:User)-[:POSTED]->(p:Post)
		RETURN p.id AS id, other.username AS author_username, p.content AS content, p.created_at AS created_at
		ORDER BY p.created_at DESC
		LIMIT $limit`

	records, err := s.exec.Read(ctx, query, map[string]any{
		"username": username,
		"limit":    int64(limit),
	})
	if err != nil {
		return nil, err
	}

	feed := make([]social.Post, 0, len(records))
	for _, rec := range records {
		post, err := postFromRecord(rec)
		if err != nil {
			return nil, err
		}
		feed = append(feed, *post)
	}
	return feed, nil
}

func postFromRecord(rec Record) (*social.Post, error) {
	createdAt, err := recTime(rec, "created_at")
	if err != nil {
		return nil, err
	}
	return &social.Post{
		ID:             recString(rec, "id"),
		AuthorUsername: recString(rec, "author_username"),
		Content:        recString(rec, "content"),
		CreatedAt:      createdAt,
	}, nil
}

// isConstraintViolation reports whether the store rejected a write because
// of a uniqueness constraint.
func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) &&
		strings.Contains(neoErr.Code, "Schema.ConstraintValidationFailed")
}

func recString(rec Record, key string) string {
	s, _ := rec.Values[key].(string)
	return s
}

func recInt64(rec Record, key string) int64 {
	n, _ := rec.Values[key].(int64)
	return n
}

func recTime(rec Record, key string) (time.Time, error) {
	switch v := rec.Values[key].(type) {
	case time.Time:
		return v, nil
	case string:
		// Constraint-free test fixtures may store timestamps as strings.
		return time.Parse(time.RFC3339Nano, v)
	default:
		return time.Time{}, fmt.Errorf("record field %q is not a timestamp (%T)", key, v)
	}
}
