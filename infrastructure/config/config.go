// Package config loads application configuration from the process
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`

	// Neo4j configuration
	Neo4jURI      string `env:"NEO4J_URI" envDefault:"bolt://localhost:7687"`
	Neo4jUser     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword string `env:"NEO4J_PASSWORD" envDefault:"test"`
	Neo4jDatabase string `env:"NEO4J_DATABASE" envDefault:"neo4j"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Feature flags
	EnableCORS    bool `env:"ENABLE_CORS" envDefault:"true"`
	EnableMetrics bool `env:"ENABLE_METRICS" envDefault:"true"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable for the chosen
// environment.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.Neo4jPassword == "" || c.Neo4jPassword == "test" {
			return fmt.Errorf("NEO4J_PASSWORD must be set in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
