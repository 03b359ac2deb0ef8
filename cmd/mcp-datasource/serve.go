package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nullpointers/mcp-datasource/internal/app"
	"github.com/nullpointers/mcp-datasource/internal/config"
	"github.com/nullpointers/mcp-datasource/internal/transport"
)

var useSocket bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server over line-delimited stdio (the default, for
use as a subprocess MCP server) or over a concurrent TCP socket with
--socket.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&useSocket, "socket", false, "Serve over a TCP socket instead of stdio")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("serve: load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: build app: %w", err)
	}
	defer application.Shutdown(context.Background())

	if useSocket {
		socket := transport.NewSocket(application.Engine.HandleRaw, application.Logger)
		application.Logger.Info("serving MCP over socket", zap.String("addr", cfg.SocketAddr))
		return socket.ListenAndServe(ctx, cfg.SocketAddr)
	}

	line := transport.NewLine(application.Engine.HandleRaw, application.Logger)
	application.Logger.Info("serving MCP over stdio")
	return line.Serve(ctx, os.Stdin, os.Stdout)
}
