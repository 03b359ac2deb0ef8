// Package app wires mcp-datasource's configuration, stores, and tool
// registry into one rpc.Engine. Every dependency is constructed explicitly
// here; nothing in this module relies on package-level init order.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nullpointers/mcp-datasource/internal/audit"
	"github.com/nullpointers/mcp-datasource/internal/config"
	"github.com/nullpointers/mcp-datasource/internal/healthserver"
	"github.com/nullpointers/mcp-datasource/internal/logging"
	"github.com/nullpointers/mcp-datasource/internal/oracle"
	"github.com/nullpointers/mcp-datasource/internal/restclient"
	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/search"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
	"github.com/nullpointers/mcp-datasource/internal/tools"
)

// App bundles every long-lived dependency the server needs, so callers
// (cmd/mcp-datasource) can shut it down cleanly in reverse order of
// construction.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Engine   *rpc.Engine
	Health   *healthserver.Server
	Store    *sqlstore.Store
	RestPool *restclient.Pool
	AuditLog *audit.Writer
}

// New constructs every component the server needs from cfg: the SQLite
// store (opened and seeded), the REST client pool, the oracle boundary, the
// audit log, the tool registry, and the RPC engine sitting on top.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(&logging.Config{Style: logging.Style(cfg.LogStyle), Level: cfg.LogLevel})

	store, err := sqlstore.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("app: open sqlite store: %w", err)
	}
	if err := store.Seed(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("app: seed sqlite store: %w", err)
	}

	auditWriter, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("app: open audit log: %w", err)
	}

	metrics := healthserver.NewMetrics()
	restPool := restclient.NewPool(logger)

	apiClient := restPool.Client(restclient.ClientOptions{
		BaseURL:     cfg.MockAPIURL,
		Credential:  cfg.MockAPIKey,
		AuthStyle:   restclient.AuthAPIKeyHeader,
		OnCacheHit:  metrics.RestCacheHitsTotal.Inc,
		OnCacheMiss: metrics.RestCacheMissTotal.Inc,
	})

	ask := oracle.New(cfg.OracleMock)

	searcher := &search.Searcher{
		Store:     store,
		APIClient: apiClient,
		FilePaths: cfg.FileSources,
	}

	sourcesCfg := tools.ListSourcesConfig{
		SQLitePath: cfg.SQLitePath,
		MockAPIURL: cfg.MockAPIURL,
		FilePaths:  cfg.FileSources,
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewListSourcesTool(sourcesCfg))
	registry.Register(tools.NewQueryDataTool(store, ask))
	registry.Register(tools.NewQueryAPITool(restPool, cfg.MockAPIURL))
	registry.Register(tools.NewTransformDataTool(store))
	registry.Register(tools.NewExportDataTool(store))
	registry.Register(tools.NewIntegrateDataTool())
	registry.Register(tools.NewCheckDataQualityTool(store))
	registry.Register(tools.NewAnalyzeSchemaTool(store, ask))
	registry.Register(tools.NewSuggestQueriesTool(store, ask))
	registry.Register(tools.NewListFilesTool())
	registry.Register(tools.NewParseFileTool())
	registry.Register(tools.NewSearchUsersTool(searcher))

	resources := NewResources(store, sourcesCfg)

	auditFunc := rpc.AuditFunc(func(event, user, detail string) {
		auditWriter.Log(event, user, detail)
	})

	engine := rpc.New(registry, resources, rpc.ServerInfo{
		Name:    "mcp-datasource",
		Version: "0.1.0",
	}, logger, auditFunc)

	health := healthserver.Start(logger, cfg.HealthAddr, metrics, func() bool {
		return store.DB().PingContext(context.Background()) == nil
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Engine:   engine,
		Health:   health,
		Store:    store,
		RestPool: restPool,
		AuditLog: auditWriter,
	}, nil
}

// Shutdown releases every resource opened by New, logging but not failing
// on individual close errors.
func (a *App) Shutdown(ctx context.Context) {
	if a.Health != nil {
		if err := a.Health.Stop(ctx); err != nil {
			a.Logger.Warn("stop health server", zap.Error(err))
		}
	}
	if a.RestPool != nil {
		a.RestPool.Close()
	}
	if a.AuditLog != nil {
		if err := a.AuditLog.Close(); err != nil {
			a.Logger.Warn("close audit log", zap.Error(err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("close sqlite store", zap.Error(err))
		}
	}
}
