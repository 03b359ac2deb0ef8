package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/nullpointers/mcp-datasource/internal/config"
	"github.com/nullpointers/mcp-datasource/internal/logging"
	"github.com/nullpointers/mcp-datasource/internal/mockapi"
)

var mockAPIAddr string

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Run the standalone demo REST API",
	Long: `Mock-api runs the in-process REST API the query_api and
search_users tools exercise in demos: a seeded set of users and an
in-memory items collection, gated by the x-api-key header.`,
	RunE: runMockAPI,
}

func init() {
	mockAPICmd.Flags().StringVar(&mockAPIAddr, "addr", "", "Address to listen on (overrides config mock_api_url host)")
}

func runMockAPI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("mock-api: load config: %w", err)
	}

	addr := mockAPIAddr
	if addr == "" {
		addr = "localhost:8000"
		if u, err := url.Parse(cfg.MockAPIURL); err == nil && u.Host != "" {
			addr = u.Host
		}
	}

	logger := logging.New(&logging.Config{Style: logging.Style(cfg.LogStyle), Level: cfg.LogLevel})
	server := mockapi.New(cfg.MockAPIKey, logger)

	logger.Sugar().Infof("serving mock API on %s", addr)
	return server.ListenAndServe(addr)
}
