package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docrag HTTP server",
	Long: `Start the HTTP API: document ingest, grounded query, and health.

Examples:
  # Start with defaults (localhost:8099)
  docrag serve

  # Start with a config file
  docrag serve --config docrag.yaml

  # Override via environment
  DOCRAG_SERVER__PORT=9000 docrag serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	eng, provider, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close() //nolint:errcheck

	srv, err := httpapi.NewServer(eng, logger, httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			return err
		}
		return nil
	}
}
