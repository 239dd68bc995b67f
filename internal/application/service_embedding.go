package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
)

const (
	EventTypeCreatorUpdated  = "creator.updated"
	EventTypeCreatorDeleted  = "creator.deleted"
	EventTypeCreatorEmbedded = "creator.embedded"
)

// GenerateCreatorEmbedding embeds the creator's canonical text, stores the
// vector and upserts the index entry. Idempotent per creator: re-running
// replaces the vector. No retries here; callers own retry policy.
func (s *Service) GenerateCreatorEmbedding(ctx context.Context, creatorID uuid.UUID) error {
	if creatorID == uuid.Nil {
		return fmt.Errorf("%w: creator_id is required", domain.ErrInvalidInput)
	}
	creator, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		return err
	}
	text := CreatorEmbeddingText(creator)
	if err := domain.ValidateEmbeddingText(text); err != nil {
		return err
	}
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	now := s.nowFn()
	if err := s.creators.UpdateEmbedding(ctx, creatorID, vector, now); err != nil {
		return err
	}
	if err := s.index.Upsert(creatorID, vector, ports.CreatorAttributes{
		Followers:  creator.FollowersCount,
		Engagement: creator.EngagementRate,
		Niche:      creator.Niche,
	}); err != nil {
		return err
	}
	return s.announceEmbedded(ctx, creatorID, now)
}

// announceEmbedded queues a creator.embedded event so every process holding
// an index projection folds the fresh vector in. The backfill runs in the
// worker process; without this event the serving index would only pick up
// regenerated embeddings at the next restart.
func (s *Service) announceEmbedded(ctx context.Context, creatorID uuid.UUID, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	eventID := uuid.New()
	payload, err := json.Marshal(map[string]string{
		"event_id":   eventID.String(),
		"creator_id": creatorID.String(),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:       eventID,
		EventType:     EventTypeCreatorEmbedded,
		PartitionKey:  creatorID.String(),
		Payload:       payload,
		OccurredAt:    now,
		SchemaVersion: "1.0",
	})
}

// GenerateBatchEmbeddings embeds many creators with bounded concurrency,
// reporting per-item outcomes instead of failing the batch on one error.
// An empty id list means "every creator missing an embedding". Safe to
// interrupt: each completed item is already persisted.
func (s *Service) GenerateBatchEmbeddings(ctx context.Context, creatorIDs []uuid.UUID) (BatchEmbeddingReport, error) {
	if err := domain.ValidateBatchSize(len(creatorIDs)); err != nil {
		return BatchEmbeddingReport{}, err
	}
	if len(creatorIDs) == 0 {
		missing, err := s.creators.ListMissingEmbeddings(ctx, s.cfg.BackfillBatchSize)
		if err != nil {
			return BatchEmbeddingReport{}, err
		}
		for _, creator := range missing {
			creatorIDs = append(creatorIDs, creator.CreatorID)
		}
	}

	report := BatchEmbeddingReport{Requested: len(creatorIDs)}
	items := make([]BatchEmbeddingItem, len(creatorIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.HydrateConcurrency)
	for i, creatorID := range creatorIDs {
		if ctx.Err() != nil {
			items[i] = BatchEmbeddingItem{CreatorID: creatorID, Error: ctx.Err().Error()}
			continue
		}
		i, creatorID := i, creatorID
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			item := BatchEmbeddingItem{CreatorID: creatorID}
			if err := s.GenerateCreatorEmbedding(ctx, creatorID); err != nil {
				item.Error = err.Error()
				item.Reason = domain.EmbeddingReason(err)
			}
			items[i] = item
		}()
	}
	wg.Wait()

	report.Items = items
	for _, item := range items {
		if item.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

// ListMissingEmbeddingIDs exposes the backfill frontier to the worker.
func (s *Service) ListMissingEmbeddingIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = s.cfg.BackfillBatchSize
	}
	missing, err := s.creators.ListMissingEmbeddings(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(missing))
	for _, creator := range missing {
		ids = append(ids, creator.CreatorID)
	}
	return ids, nil
}

// RebuildIndex replays every stored embedding into the vector index. The
// index is a derived projection; this restores it from scratch.
func (s *Service) RebuildIndex(ctx context.Context) (int, error) {
	count := 0
	err := s.creators.ForEachWithEmbedding(ctx, s.cfg.BackfillBatchSize, func(creator domain.Creator) error {
		if err := s.index.Upsert(creator.CreatorID, creator.Embedding, ports.CreatorAttributes{
			Followers:  creator.FollowersCount,
			Engagement: creator.EngagementRate,
			Niche:      creator.Niche,
		}); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

type creatorEventPayload struct {
	EventID   string `json:"event_id"`
	CreatorID string `json:"creator_id"`
}

// HandleCreatorUpdated invalidates the stored embedding and drops the index
// entry; the backfill worker regenerates both from the new profile text.
func (s *Service) HandleCreatorUpdated(ctx context.Context, payload []byte) error {
	event, creatorID, err := s.decodeCreatorEvent(payload)
	if err != nil {
		return err
	}
	duplicate, err := s.isDuplicateEvent(ctx, event.EventID, EventTypeCreatorUpdated)
	if err != nil || duplicate {
		return err
	}
	if err := s.creators.ClearEmbedding(ctx, creatorID, s.nowFn()); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.index.Delete(creatorID)
	return nil
}

// HandleCreatorEmbedded folds a freshly stored embedding into the local
// index projection.
func (s *Service) HandleCreatorEmbedded(ctx context.Context, payload []byte) error {
	event, creatorID, err := s.decodeCreatorEvent(payload)
	if err != nil {
		return err
	}
	duplicate, err := s.isDuplicateEvent(ctx, event.EventID, EventTypeCreatorEmbedded)
	if err != nil || duplicate {
		return err
	}
	creator, err := s.creators.GetByID(ctx, creatorID)
	if errors.Is(err, domain.ErrNotFound) {
		// Deleted after embedding; nothing to index.
		return nil
	}
	if err != nil {
		return err
	}
	if !creator.HasEmbedding() {
		// Cleared again by a later update; the backfill will re-announce.
		return nil
	}
	return s.index.Upsert(creator.CreatorID, creator.Embedding, ports.CreatorAttributes{
		Followers:  creator.FollowersCount,
		Engagement: creator.EngagementRate,
		Niche:      creator.Niche,
	})
}

// HandleCreatorDeleted cascades: index entry, match records, creator row.
func (s *Service) HandleCreatorDeleted(ctx context.Context, payload []byte) error {
	event, creatorID, err := s.decodeCreatorEvent(payload)
	if err != nil {
		return err
	}
	duplicate, err := s.isDuplicateEvent(ctx, event.EventID, EventTypeCreatorDeleted)
	if err != nil || duplicate {
		return err
	}
	s.index.Delete(creatorID)
	if err := s.matches.DeleteByCreator(ctx, creatorID); err != nil {
		return err
	}
	if err := s.creators.Delete(ctx, creatorID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) decodeCreatorEvent(payload []byte) (creatorEventPayload, uuid.UUID, error) {
	var event creatorEventPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, uuid.Nil, fmt.Errorf("%w: malformed creator event", domain.ErrInvalidInput)
	}
	creatorID, err := uuid.Parse(event.CreatorID)
	if err != nil {
		return event, uuid.Nil, fmt.Errorf("%w: creator event missing creator_id", domain.ErrInvalidInput)
	}
	return event, creatorID, nil
}

func (s *Service) isDuplicateEvent(ctx context.Context, eventID, eventType string) (bool, error) {
	if s.eventDedup == nil || eventID == "" {
		return false, nil
	}
	now := s.nowFn()
	duplicate, err := s.eventDedup.IsDuplicate(ctx, eventID, now)
	if err != nil {
		return false, err
	}
	if duplicate {
		return true, nil
	}
	return false, s.eventDedup.MarkProcessed(ctx, eventID, eventType, now.Add(s.cfg.EventDedupTTL))
}
