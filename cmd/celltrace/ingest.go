package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forensint/celltrace/internal/config"
	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/pipeline"
	"github.com/forensint/celltrace/internal/storage"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [archive.zip]...",
		Short: "Ingest extraction archives into a case",
		Long: `Ingest unpacks one or more extraction archives (ZIP files containing
vendor XML reports), extracts the contacts, credentials, and accounts
they contain, and stores the normalized records under the given case.

Each archive gets its own upload session so it can be removed again
without touching records from other uploads.

Examples:
  # Ingest a single archive
  celltrace ingest --case 2026-0142 --person "Ana Pop" extraction.zip

  # Ingest several archives from the same device owner concurrently
  celltrace ingest --case 2026-0142 --person "Ana Pop" phone1.zip phone2.zip

  # Use a custom configuration file
  celltrace ingest -c myconfig.yml --case 2026-0142 --person "Ana Pop" extraction.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngestCmd,
	}

	cmd.Flags().StringP("case", "n", "", "Case number the records belong to (required)")
	cmd.Flags().StringP("person", "p", "", "Name of the device owner (required)")
	cmd.Flags().IntP("concurrency", "j", 0, "Number of archives processed in parallel (default from config)")

	return cmd
}

// runIngestCmd executes the ingest command.
func runIngestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	caseNumber, err := cmd.Flags().GetString("case")
	if err != nil {
		return err
	}
	personName, err := cmd.Flags().GetString("person")
	if err != nil {
		return err
	}
	if strings.TrimSpace(caseNumber) == "" || strings.TrimSpace(personName) == "" {
		return errors.New("both --case and --person are required")
	}

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runIngest(ctx, cmd, cfg, logger, caseNumber, personName, args)
}

// runIngest opens the stores and pushes every archive through the
// ingestion pipeline.
func runIngest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, caseNumber, personName string, archives []string) error {
	for _, archivePath := range archives {
		if _, err := os.Stat(archivePath); err != nil {
			return fmt.Errorf("archive not found: %s", archivePath)
		}
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	store, err := storage.NewStore(cfg.StorageRoot)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewIngestPipeline(db, store, logger)
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	requests := make([]pipeline.Request, 0, len(archives))
	for _, archivePath := range archives {
		requests = append(requests, pipeline.Request{
			CaseNumber:  caseNumber,
			PersonName:  personName,
			ArchivePath: archivePath,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingesting %d archive(s) into case %s...\n", len(archives), caseNumber)
	startTime := time.Now()

	results, err := bp.ProcessBatch(ctx, requests)
	if err != nil {
		return err
	}

	for i, ing := range results {
		ing.Cleanup()
		printIngestion(cmd, filepath.Base(archives[i]), ing)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(cmd.OutOrStdout(), "\nIngestion completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// printIngestion writes a short per-archive summary to stdout.
func printIngestion(cmd *cobra.Command, name string, ing *pipeline.Ingestion) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s\n", name)
	if ing.Err != nil {
		fmt.Fprintf(out, "  FAILED: %v\n", ing.Err)
		return
	}
	if ing.DeviceInfo != "" {
		fmt.Fprintf(out, "  device:      %s\n", ing.DeviceInfo)
	}
	if ing.OwnerPhone != "" {
		fmt.Fprintf(out, "  owner phone: %s\n", ing.OwnerPhone)
	}
	fmt.Fprintf(out, "  session:     %s\n", ing.UploadSessionID)
	fmt.Fprintf(out, "  contacts: %d, credentials: %d, accounts: %d, photos matched: %d\n",
		ing.Stats.ContactsStored, ing.Stats.CredentialsStored,
		ing.Stats.AccountsStored, ing.Stats.PhotosMatched)
	if len(ing.ParseFailures) > 0 {
		fmt.Fprintf(out, "  parse failures: %s\n", strings.Join(ing.ParseFailures, ", "))
	}
}
