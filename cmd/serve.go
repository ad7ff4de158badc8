package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/tools"
)

// Transports accepted by serve.
const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// ErrUnknownTransport indicates an unsupported --transport value.
var ErrUnknownTransport = errors.New("unknown transport")

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server",
	Long: `Runs the Jira MCP server. The stdio transport is what desktop MCP clients
launch; the http transport serves the streamable HTTP endpoint on --addr.
With --watch-config, edits to config.yaml change the Jira defaults used by
subsequent tool calls without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		return serveRunE(cmd, provider)
	},
}

func serveRunE(cmd *cobra.Command, provider *Provider) error {
	cfg := provider.AppConfig()
	transport := cfg.Server.Transport
	if cmd.Flags().Changed("transport") {
		transport, _ = cmd.Flags().GetString("transport")
	}
	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
		if err := config.Watch(configDir, provider.SetConfig); err != nil {
			return fmt.Errorf("failed to watch configuration: %w", err)
		}
		Log.Info().Msg("Watching config.yaml for changes")
	}

	s := tools.NewServer(appName, version, provider.Toolset())
	if provider.LLM == nil {
		Log.Info().Msg("draft_issue is disabled: no LLM provider configured")
	}

	switch transport {
	case transportStdio, "":
		Log.Info().Str("transport", transportStdio).Msg("Serving MCP tools")
		return server.ServeStdio(s)
	case transportHTTP:
		return serveHTTP(cmd.Context(), s, addr)
	default:
		return fmt.Errorf("%w %q (expected %s or %s)", ErrUnknownTransport, transport, transportStdio, transportHTTP)
	}
}

// serveHTTP runs the streamable HTTP transport until SIGINT or SIGTERM.
func serveHTTP(ctx context.Context, s *server.MCPServer, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := server.NewStreamableHTTPServer(s)
	errCh := make(chan error, 1)
	go func() {
		Log.Info().Str("transport", transportHTTP).Str("addr", addr).Msg("Serving MCP tools")
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Log.Info().Msg("Shutting down HTTP transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func init() {
	serveCmd.Flags().String("transport", transportStdio, "Transport to serve: stdio or http (default from config)")
	serveCmd.Flags().String("addr", ":8080", "Listen address for the http transport (default from config)")
	serveCmd.Flags().Bool("watch-config", false, "Reload Jira defaults when config.yaml changes")

	rootCmd.AddCommand(serveCmd)
}
