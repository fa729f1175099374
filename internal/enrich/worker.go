package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/queue"
)

// CompanyEnricher is the per-item pipeline the worker drives.
type CompanyEnricher interface {
	EnrichCompany(ctx context.Context, companyID uuid.UUID) (*Result, error)
}

// WorkerConfig tunes the loop cadence.
type WorkerConfig struct {
	ID             string
	BatchSize      int
	BatchDelay     time.Duration
	EmptyDelay     time.Duration
	ErrorDelay     time.Duration
	EnqueueScanCap int
	StatsEvery     int
}

func (c *WorkerConfig) defaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = 5 * time.Second
	}
	if c.EmptyDelay <= 0 {
		c.EmptyDelay = 30 * time.Second
	}
	if c.ErrorDelay <= 0 {
		c.ErrorDelay = 10 * time.Second
	}
	if c.EnqueueScanCap <= 0 {
		c.EnqueueScanCap = 10000
	}
	if c.StatsEvery <= 0 {
		c.StatsEvery = 100
	}
	if c.ID == "" {
		c.ID = "worker"
	}
}

// Worker polls the queue and processes claimed items sequentially. Items
// run one at a time to stay friendly to external rate limits.
type Worker struct {
	queue    queue.Store
	enricher CompanyEnricher
	cfg      WorkerConfig
	stats    *Stats
}

// NewWorker creates a Worker.
func NewWorker(q queue.Store, e CompanyEnricher, cfg WorkerConfig) *Worker {
	cfg.defaults()
	return &Worker{queue: q, enricher: e, cfg: cfg, stats: NewStats()}
}

// Stats exposes the worker's counters for the ops surface.
func (w *Worker) Stats() *Stats {
	return w.stats
}

// Run drives the loop until ctx is canceled. Cancellation is cooperative
// and checked between batches only: ClaimBatch has already moved every item
// in the batch to processing, so the batch runs to completion (on detached
// contexts) before the loop halts. Exiting early would strand claimed items
// in processing with no way back to pending. Queue errors never exit the
// loop; they log and retry after a delay.
func (w *Worker) Run(ctx context.Context) error {
	log := zap.L().With(zap.String("worker", w.cfg.ID))
	log.Info("worker started",
		zap.Int("batch_size", w.cfg.BatchSize),
		zap.Duration("batch_delay", w.cfg.BatchDelay))

	for {
		if ctx.Err() != nil {
			log.Info("worker stopping")
			return nil
		}

		items, err := w.queue.ClaimBatch(ctx, w.cfg.BatchSize)
		if err != nil {
			log.Error("claim batch failed", zap.Error(err))
			if !w.sleep(ctx, w.cfg.ErrorDelay) {
				return nil
			}
			continue
		}

		if len(items) == 0 {
			n, err := w.queue.EnqueueMissing(ctx, w.cfg.EnqueueScanCap)
			if err != nil {
				log.Error("enqueue scan failed", zap.Error(err))
			} else if n > 0 {
				log.Info("queued companies needing enrichment", zap.Int64("count", n))
			}
			if !w.sleep(ctx, w.cfg.EmptyDelay) {
				return nil
			}
			continue
		}

		log.Debug("claimed batch", zap.Int("items", len(items)))
		for _, item := range items {
			w.processItem(ctx, log, item)
		}

		if !w.sleep(ctx, w.cfg.BatchDelay) {
			return nil
		}
	}
}

// processItem runs one queue item. Per-item failures are recorded on the
// item and never abort the batch.
func (w *Worker) processItem(ctx context.Context, log *zap.Logger, item queue.Item) {
	// Detached so a shutdown signal doesn't cancel the in-flight item.
	itemCtx := context.WithoutCancel(ctx)

	res, err := w.enricher.EnrichCompany(itemCtx, item.CompanyID)
	if err != nil {
		log.Warn("enrichment failed",
			zap.Int64("item", item.ID),
			zap.String("company", item.CompanyID.String()),
			zap.Int("attempt", item.Attempts),
			zap.Error(err))
		if mfErr := w.queue.MarkFailed(itemCtx, item.ID, err.Error()); mfErr != nil {
			log.Error("mark failed errored", zap.Int64("item", item.ID), zap.Error(mfErr))
		}
	} else {
		if mcErr := w.queue.MarkCompleted(itemCtx, item.ID); mcErr != nil {
			log.Error("mark completed errored", zap.Int64("item", item.ID), zap.Error(mcErr))
		}
	}

	status := ""
	if res != nil {
		status = res.Status
	}
	w.stats.Record(status, err)

	if snap := w.stats.Snapshot(); snap.Processed%int64(w.cfg.StatsEvery) == 0 {
		log.Info("worker progress",
			zap.Int64("processed", snap.Processed),
			zap.Int64("succeeded", snap.Succeeded),
			zap.Int64("failed", snap.Failed),
			zap.Int64("no_data", snap.NoData),
			zap.Float64("per_minute", snap.PerMinute))
	}
}

// sleep waits for d or until ctx is canceled; false means canceled.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
