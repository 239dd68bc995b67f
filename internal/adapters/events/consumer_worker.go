package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
)

type Message struct {
	Topic   string
	Payload []byte
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

// Topics maps broker topic names to the creator lifecycle events. Topic
// names are operator config; dispatch follows whatever the consumer was
// subscribed with, not the event type literals.
type Topics struct {
	CreatorUpdated  string
	CreatorDeleted  string
	CreatorEmbedded string
}

type CreatorEventHandler interface {
	HandleCreatorUpdated(ctx context.Context, payload []byte) error
	HandleCreatorDeleted(ctx context.Context, payload []byte) error
	HandleCreatorEmbedded(ctx context.Context, payload []byte) error
}

// ConsumerWorker drains creator lifecycle events and applies them to the
// embedding store and vector index. Handler failures are logged and skipped;
// the dedup table keeps reprocessing safe.
type ConsumerWorker struct {
	logger   *slog.Logger
	consumer Consumer
	handler  CreatorEventHandler
	topics   Topics
	interval time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, handler CreatorEventHandler, topics Topics, interval time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if topics.CreatorUpdated == "" {
		topics.CreatorUpdated = application.EventTypeCreatorUpdated
	}
	if topics.CreatorDeleted == "" {
		topics.CreatorDeleted = application.EventTypeCreatorDeleted
	}
	if topics.CreatorEmbedded == "" {
		topics.CreatorEmbedded = application.EventTypeCreatorEmbedded
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, handler: handler, topics: topics, interval: interval,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
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

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		switch msg.Topic {
		case w.topics.CreatorUpdated:
			if err := w.handler.HandleCreatorUpdated(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle creator.updated", "error", err)
			}
		case w.topics.CreatorDeleted:
			if err := w.handler.HandleCreatorDeleted(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle creator.deleted", "error", err)
			}
		case w.topics.CreatorEmbedded:
			if err := w.handler.HandleCreatorEmbedded(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle creator.embedded", "error", err)
			}
		}
	}
	return nil
}
