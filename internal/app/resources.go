package app

import (
	"context"

	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
	"github.com/nullpointers/mcp-datasource/internal/tools"
)

// Resources answers the two static resource URIs (sources://all,
// tables://all) the server exposes to resources/list and resources/read.
type Resources struct {
	store      *sqlstore.Store
	sourcesCfg tools.ListSourcesConfig
}

// NewResources builds a Resources backed by store and the same source
// configuration the list_sources tool reports.
func NewResources(store *sqlstore.Store, sourcesCfg tools.ListSourcesConfig) *Resources {
	return &Resources{store: store, sourcesCfg: sourcesCfg}
}

// Sources reports every configured SQL, REST, and file source.
func (r *Resources) Sources(_ context.Context) (any, error) {
	result := map[string]any{
		"sql":  map[string]any{"type": "sqlite", "path": r.sourcesCfg.SQLitePath},
		"api":  map[string]any{"type": "rest", "base_url": r.sourcesCfg.MockAPIURL},
		"file": r.sourcesCfg.FilePaths,
	}
	return result, nil
}

// Tables reports every table currently present in the SQL store.
func (r *Resources) Tables(ctx context.Context) (any, error) {
	names, err := r.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tables": names}, nil
}
