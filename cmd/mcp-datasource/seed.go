package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nullpointers/mcp-datasource/internal/config"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

var seedDBCmd = &cobra.Command{
	Use:   "seed-db",
	Short: "(Re)populate the SQLite demo database",
	Long: `Seed-db creates the users, products, and orders tables (if absent)
and replaces their contents with the deterministic demo dataset: three
products, 200 users cycling through NA/EU/APAC/LATAM regions, and 150
orders.`,
	RunE: runSeedDB,
}

func runSeedDB(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("seed-db: load config: %w", err)
	}

	store, err := sqlstore.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("seed-db: open %s: %w", cfg.SQLitePath, err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Seed(ctx); err != nil {
		return fmt.Errorf("seed-db: seed: %w", err)
	}

	tables, err := store.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("seed-db: list tables: %w", err)
	}
	fmt.Printf("seeded %s: %v\n", cfg.SQLitePath, tables)
	return nil
}
