package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mcp-datasource",
	Short: "mcp-datasource - a multi-backend data query MCP server",
	Long: `mcp-datasource exposes SQL, REST, and flat-file data sources behind
one Model Context Protocol server.

It supports:
- Natural-language and raw SQL queries against a seeded SQLite database
- REST API calls through a pooled, cached, retrying client
- CSV/JSON/XML/Excel file parsing
- Unified search across all three, deduplicated by user identity
- Transform, export, integrate, and data-quality tooling on top

Use serve to run the MCP server, seed-db to populate the SQLite demo
database, and mock-api to run the standalone demo REST API.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedDBCmd)
	rootCmd.AddCommand(mockAPICmd)
}
