// Package neo4j implements the social.Store contract on top of a Neo4j
// instance reached through the official Go driver.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Record is one result row: the RETURN-clause column names in query order
// plus their values.
type Record struct {
	Keys   []string
	Values map[string]any
}

// Executor executes parameterized Cypher against the graph store and
// returns every result row. Errors from the store propagate unmodified;
// no retries happen at this layer.
type Executor interface {
	// Read executes a query with no intended side effects.
	Read(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// Write executes a query that may create or delete nodes and edges,
	// returning any RETURN-clause rows.
	Write(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// Client owns the process-wide driver handle. It is built once at startup
// and closed at shutdown; each Read/Write call runs in its own session
// scope, so concurrent callers never serialize on it.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient builds a driver for the given bolt URI. The connection is not
// verified here; call VerifyConnectivity before serving traffic.
func NewClient(uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver, database: database}, nil
}

// VerifyConnectivity checks that the store is reachable.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Close releases the driver and every pooled connection.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// EnsureConstraints declares the uniqueness constraints the data model
// relies on. The declarations are idempotent; running them on every
// startup is fine.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE",
	}
	for _, stmt := range constraints {
		if _, err := c.Write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("declare constraint: %w", err)
		}
	}
	return nil
}

func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return c.run(ctx, query, params, neo4j.ExecuteQueryWithReadersRouting())
}

func (c *Client) Write(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return c.run(ctx, query, params, neo4j.ExecuteQueryWithWritersRouting())
}

func (c *Client) run(ctx context.Context, query string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) ([]Record, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		routing,
	)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, Record{Keys: rec.Keys, Values: rec.AsMap()})
	}
	return records, nil
}
