package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/server"
	"github.com/forensint/celltrace/internal/storage"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve starts the HTTP API over the ingested case data.

The API exposes ingestion uploads, record listings with filters,
deduplicated views, cross-case search, suspect profiles, and report
exports. It binds to localhost by default; put a reverse proxy in
front of it before exposing it beyond the analysis workstation.

Examples:
  # Serve on the configured address (default 127.0.0.1:8085)
  celltrace serve

  # Serve on a different address
  celltrace serve --listen 0.0.0.0:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "", "Bind address for the HTTP API (overrides config)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.ListenAddr = listen
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.StorageRoot)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	srv := server.New(cfg, db, store, logger)

	// Shut the server down on interrupt so in-flight uploads drain.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s/api\n", cfg.ListenAddr)

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
