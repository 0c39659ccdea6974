package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/history"
	"github.com/dhabedank/idea-blueprint/internal/server"
)

var serveAddr string

// ServeCmd runs the HTTP API.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blueprint HTTP API",
	Long: `Serve the blueprint API.

Endpoints:
  POST /api/breakdown              generate a blueprint from {idea, depth, focusArea}
  POST /api/explore-component      break one component or service down
  GET  /api/history                list this server's generations
  GET  /api/history/current        the current generation
  POST /api/history/{index}/select move the history cursor
  GET  /api/export?format=...      json, markdown or text export
  GET  /api/diagram                architecture graph of a generation

History lives in memory and is lost on restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, false)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		rt.cfg.Server.Addr = serveAddr
	}

	handler := server.NewHandler(rt.svc, history.NewStore(), rt.logger)
	srv := server.New(rt.cfg.Server.Addr, handler.Routes(), rt.logger)
	rt.logger.Info("using LLM", "adapter", rt.svc.Adapter().Name(), "model", rt.model)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}
