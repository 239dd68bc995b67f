package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"golang.org/x/sync/errgroup"
)

// BackfillWorker sweeps creators without embeddings and generates them.
// Timeouts and upstream errors retry with Fibonacci backoff; invalid
// responses do not, since replaying the same request cannot fix them.
type BackfillWorker struct {
	logger      *slog.Logger
	service     *application.Service
	interval    time.Duration
	batchSize   int
	concurrency int
}

func NewBackfillWorker(logger *slog.Logger, service *application.Service, interval time.Duration, batchSize, concurrency int) *BackfillWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BackfillWorker{
		logger: logger, service: service, interval: interval, batchSize: batchSize, concurrency: concurrency,
	}
}

func (w *BackfillWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "backfill iteration failed",
				"module", "events.backfill_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *BackfillWorker) processOnce(ctx context.Context) error {
	ids, err := w.service.ListMissingEmbeddingIDs(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.concurrency)
	for _, creatorID := range ids {
		creatorID := creatorID
		group.Go(func() error {
			if err := w.embedWithRetry(groupCtx, creatorID); err != nil {
				w.logger.WarnContext(groupCtx, "embedding generation failed",
					"module", "events.backfill_worker",
					"creator_id", creatorID.String(),
					"reason", string(domain.EmbeddingReason(err)),
					"error", err,
				)
			}
			return nil
		})
	}
	return group.Wait()
}

func (w *BackfillWorker) embedWithRetry(ctx context.Context, creatorID uuid.UUID) error {
	b := retry.NewFibonacci(1 * time.Second)
	return retry.Do(ctx, retry.WithMaxRetries(3, b), func(ctx context.Context) error {
		err := w.service.GenerateCreatorEmbedding(ctx, creatorID)
		if err == nil {
			return nil
		}
		switch domain.EmbeddingReason(err) {
		case domain.EmbeddingFailureTimeout, domain.EmbeddingFailureUpstream:
			return retry.RetryableError(err)
		default:
			return err
		}
	})
}
