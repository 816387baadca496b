package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Request identifies one archive to ingest.
type Request struct {
	CaseNumber  string
	PersonName  string
	ArchivePath string
}

// BatchProcessor handles concurrent ingestion of multiple archives.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-archive execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each ingestion.
	// We use a factory to ensure each ingestion gets a fresh pipeline
	// instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent ingestions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent ingestions.
// Default is 4 if not specified. Each ingestion unpacks a full archive,
// so the useful limit is disk-bound, not CPU-bound.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each ingestion to create a
// fresh pipeline instance. This ensures that pipeline state doesn't leak
// between ingestions.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch ingests multiple archives concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Every archive writes into its own ephemeral workspace and stamps its
// own upload session id, so concurrent ingestions into the same case are
// safe. Results live on the call's own stack, so one BatchProcessor may
// serve overlapping ProcessBatch calls; each goroutine writes only its
// own index and g.Wait orders those writes before the return.
//
// Returns all ingestion states in request order, even for archives that
// failed; failed ingestions carry their parse failures and an empty
// persist count.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, requests []Request) ([]*Ingestion, error) {
	bp.logger.Info("starting batch ingestion",
		"total_archives", len(requests),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	results := make([]*Ingestion, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("ingesting archive",
				"archive", req.ArchivePath,
				"case", req.CaseNumber,
				"index", i+1,
				"total", len(requests),
			)

			ing := NewIngestion(req.CaseNumber, req.PersonName, req.ArchivePath)
			defer ing.Cleanup()

			p := bp.pipelineFactory()
			err := p.Execute(ctx, ing)

			ing.Err = err
			results[i] = ing

			if err != nil {
				bp.logger.Warn("ingestion failed",
					"archive", req.ArchivePath,
					"case", req.CaseNumber,
					"error", err,
				)
				// Other archives in the batch still ingest; the failure is
				// visible on the returned ingestion state.
				return nil
			}

			bp.logger.Info("ingestion completed",
				"archive", req.ArchivePath,
				"case", req.CaseNumber,
				"contacts", ing.Stats.ContactsStored,
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch ingestion complete",
		"total_archives", len(requests),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
