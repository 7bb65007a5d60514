package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"replygraph/internal/api"
	"replygraph/internal/cmdlog"
	"replygraph/internal/config"
	"replygraph/internal/logging"
	"replygraph/internal/mcptool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search and graph HTTP API",
	RunE:  cmdlog.RunE("serve", runServe),
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose search and graph as MCP tools over stdio",
	RunE:  cmdlog.RunE("mcp", runMCP),
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler: api.NewHandler(api.Deps{
			Service:        api.NewService(newPipeline(cfg)),
			MetricsEnabled: cfg.Metrics.Enabled,
		}),
	}
	logging.Info("listening", map[string]any{"addr": ln.Addr().String(), "version": version})
	return serveUntil(ctx, srv, ln, cfg.Server.ShutdownTimeout)
}

// serveUntil serves on ln until ctx is done, then drains in-flight requests
// for up to grace. Request contexts are not derived from ctx.
func serveUntil(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	if grace <= 0 {
		grace = config.Default().Server.ShutdownTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Info("shutting_down", nil)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	s := mcptool.NewServer(api.NewService(newPipeline(cfg)), version)
	err = server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
