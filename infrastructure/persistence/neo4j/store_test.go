package neo4j

import (
	"context"
	"os"
	"testing"

	"socialgraph/domain/social/socialtest"
)

// TestAcceptance runs the shared store suite against a live Neo4j
// instance. It is skipped unless NEO4J_URI points at one; the target
// database is wiped before every test.
func TestAcceptance(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Missing NEO4J_URI env var; skipping neo4j-backed store test suite")
	}

	ctx := context.Background()
	client, err := NewClient(
		uri,
		envOr("NEO4J_USER", "neo4j"),
		envOr("NEO4J_PASSWORD", "test"),
		envOr("NEO4J_DATABASE", "neo4j"),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close(ctx)

	if err := client.VerifyConnectivity(ctx); err != nil {
		t.Fatalf("failed to reach neo4j at %s: %v", uri, err)
	}
	if err := client.EnsureConstraints(ctx); err != nil {
		t.Fatalf("failed to declare constraints: %v", err)
	}

	suite := socialtest.Suite{
		Store: NewStore(client),
		BeforeEach: func(t *testing.T) {
			flushDB(t, client)
		},
	}

	suite.TestStore(t)
}

func flushDB(t *testing.T, client *Client) {
	t.Helper()
	if _, err := client.Write(context.Background(), "MATCH (n) DETACH DELETE n", nil); err != nil {
		t.Fatalf("failed to flush database: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
