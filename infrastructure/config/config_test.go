package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, "neo4j", cfg.Neo4jDatabase)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.EnableCORS)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("NEO4J_URI", "neo4j://db.internal:7687")
	t.Setenv("NEO4J_PASSWORD", "s3cret")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.Equal(t, "neo4j://db.internal:7687", cfg.Neo4jURI)
	assert.Equal(t, "s3cret", cfg.Neo4jPassword)
	assert.False(t, cfg.EnableMetrics)
}

func TestProductionRequiresRealPassword(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("NEO4J_PASSWORD", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
