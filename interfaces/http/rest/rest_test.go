package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialgraph/infrastructure/persistence/memory"
	"socialgraph/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := NewRouter(memory.NewStore(), zap.NewNop(), observability.NewCollector("test"), false)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func createUser(t *testing.T, srv *httptest.Server, username string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{"username": username})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body
}

func createPost(t *testing.T, srv *httptest.Server, author, content string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/posts", map[string]string{
		"author_username": author,
		"content":         content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body
}

func TestWelcome(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	resp, body = doJSON(t, srv, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestCreateUser(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{
		"username": "alice",
		"name":     "Alice",
		"bio":      "hello",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "hello", body["bio"])
}

func TestCreateUserDuplicate(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "CONFLICT", body["type"])
}

func TestCreateUserMissingUsername(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/users", map[string]string{"name": "Nameless"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["type"])
	assert.Contains(t, body["message"], "username is required")
}

func TestGetUser(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])

	createUser(t, srv, "alice")
	resp, body = doJSON(t, srv, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.EqualValues(t, 0, body["following_count"])
	assert.EqualValues(t, 0, body["followers_count"])
	assert.EqualValues(t, 0, body["posts_count"])
}

func TestFollow(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")
	createUser(t, srv, "bob")

	payload := map[string]string{
		"follower_username": "bob",
		"followee_username": "alice",
	}

	resp, body := doJSON(t, srv, http.MethodPost, "/follow", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "OK", body["detail"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "bob", data["follower"])
	assert.Equal(t, "alice", data["followee"])

	// Re-following succeeds and leaves a single edge.
	resp, _ = doJSON(t, srv, http.MethodPost, "/follow", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["followers_count"])
}

func TestFollowMissingUser(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/follow", map[string]string{
		"follower_username": "alice",
		"followee_username": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "One or both users not found", body["message"])
}

func TestUnfollowIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")
	createUser(t, srv, "bob")

	payload := map[string]string{
		"follower_username": "bob",
		"followee_username": "alice",
	}

	// No edge exists yet; unfollow still reports success.
	resp, body := doJSON(t, srv, http.MethodPost, "/unfollow", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["detail"])

	doJSON(t, srv, http.MethodPost, "/follow", payload)
	resp, _ = doJSON(t, srv, http.MethodPost, "/unfollow", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["followers_count"])
}

func TestCreatePost(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/posts", map[string]string{
		"author_username": "alice",
		"content":         "hello world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "alice", body["author_username"])
	assert.Equal(t, "hello world", body["content"])
	assert.NotEmpty(t, body["created_at"])
}

func TestCreatePostMissingAuthor(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/posts", map[string]string{
		"author_username": "ghost",
		"content":         "boo",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Author not found", body["message"])
}

func TestCreatePostContentTooLong(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/posts", map[string]string{
		"author_username": "alice",
		"content":         strings.Repeat("x", 501),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["type"])
	assert.Contains(t, body["message"], "content must be at most 500 characters")
}

func TestGetPost(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/posts/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Post not found", body["message"])

	createUser(t, srv, "alice")
	post := createPost(t, srv, "alice", "hello world")
	postID := post["id"].(string)

	resp, body = doJSON(t, srv, http.MethodGet, "/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, postID, body["id"])
	assert.Equal(t, "alice", body["author_username"])
	assert.EqualValues(t, 0, body["likes"])
}

func TestLikePost(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")
	createUser(t, srv, "bob")
	post := createPost(t, srv, "alice", "hello")
	postID := post["id"].(string)

	likePath := fmt.Sprintf("/posts/%s/like", postID)

	resp, body := doJSON(t, srv, http.MethodPost, likePath, map[string]string{"username": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "liked", body["detail"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "bob", data["username"])
	assert.Equal(t, postID, data["post_id"])

	// Liking twice counts once.
	resp, _ = doJSON(t, srv, http.MethodPost, likePath, map[string]string{"username": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodGet, "/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["likes"])
}

func TestLikePostMissing(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")
	post := createPost(t, srv, "alice", "hello")

	resp, body := doJSON(t, srv, http.MethodPost, "/posts/no-such-post/like", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User or post not found", body["message"])

	likePath := fmt.Sprintf("/posts/%s/like", post["id"].(string))
	resp, body = doJSON(t, srv, http.MethodPost, likePath, map[string]string{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User or post not found", body["message"])
}

func getFeed(t *testing.T, srv *httptest.Server, path string) (*http.Response, []map[string]any) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var feed []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		feed = nil
	}
	return resp, feed
}

func TestFeedLimit(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "reader")
	createUser(t, srv, "alice")
	doJSON(t, srv, http.MethodPost, "/follow", map[string]string{
		"follower_username": "reader",
		"followee_username": "alice",
	})

	for i := 0; i < 5; i++ {
		createPost(t, srv, "alice", fmt.Sprintf("post %d", i))
	}

	resp, feed := getFeed(t, srv, "/feed/reader?limit=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 3)
	assert.Equal(t, "post 4", feed[0]["content"])
	assert.Equal(t, "post 3", feed[1]["content"])
	assert.Equal(t, "post 2", feed[2]["content"])
}

func TestFeedInvalidLimit(t *testing.T) {
	srv := newTestServer(t)

	for _, raw := range []string{"abc", "0", "-3"} {
		resp, err := srv.Client().Get(srv.URL + "/feed/reader?limit=" + raw)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "limit=%s", raw)
	}
}

func TestFeedUnknownUserIsEmptyNotError(t *testing.T) {
	srv := newTestServer(t)

	resp, feed := getFeed(t, srv, "/feed/ghost")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, feed)
}

func TestEndToEndScenario(t *testing.T) {
	srv := newTestServer(t)

	createUser(t, srv, "alice")
	createUser(t, srv, "bob")

	resp, _ := doJSON(t, srv, http.MethodPost, "/follow", map[string]string{
		"follower_username": "bob",
		"followee_username": "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	createPost(t, srv, "alice", "hello world")

	resp, feed := getFeed(t, srv, "/feed/bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 1)
	assert.Equal(t, "hello world", feed[0]["content"])
	assert.Equal(t, "alice", feed[0]["author_username"])

	resp, body := doJSON(t, srv, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["followers_count"])
	assert.EqualValues(t, 1, body["posts_count"])
	assert.EqualValues(t, 0, body["following_count"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
