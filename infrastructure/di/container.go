// Package di wires the application's dependencies together.
package di

import (
	"context"
	"fmt"

	"socialgraph/domain/social"
	"socialgraph/infrastructure/config"
	"socialgraph/infrastructure/persistence/neo4j"
	"socialgraph/pkg/observability"

	"go.uber.org/zap"
)

// Container holds every process-wide dependency. The store handle is
// built once here and injected into handlers; nothing reaches it as a
// singleton.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Client  *neo4j.Client
	Store   social.Store
	Metrics *observability.Collector
}

// InitializeContainer builds the dependency graph: logger, graph store
// client (verified and with constraints declared), store, and metrics.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	client, err := neo4j.NewClient(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	if err := client.EnsureConstraints(ctx); err != nil {
		return nil, err
	}

	var collector *observability.Collector
	if cfg.EnableMetrics {
		collector = observability.NewCollector("socialgraph")
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Store:   neo4j.NewStore(client),
		Metrics: collector,
	}, nil
}

// Shutdown releases the store connection and flushes the logger.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Client.Close(ctx); err != nil {
		return fmt.Errorf("close neo4j client: %w", err)
	}
	return nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
