package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

type CreatorRepository interface {
	GetByID(ctx context.Context, creatorID uuid.UUID) (domain.Creator, error)
	// ListMissingEmbeddings returns creators whose embedding is absent or
	// stale, oldest first, so the backfill worker can resume anywhere.
	ListMissingEmbeddings(ctx context.Context, limit int) ([]domain.Creator, error)
	// ForEachWithEmbedding streams embedded creators in batches; used to
	// rebuild the vector index projection at startup.
	ForEachWithEmbedding(ctx context.Context, batchSize int, fn func(domain.Creator) error) error
	UpdateEmbedding(ctx context.Context, creatorID uuid.UUID, vector []float32, at time.Time) error
	ClearEmbedding(ctx context.Context, creatorID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, creatorID uuid.UUID) error
}

type CampaignRepository interface {
	GetByID(ctx context.Context, campaignID uuid.UUID) (domain.Campaign, error)
}

// MatchPage is one page of stored match records plus the unpaginated total.
type MatchPage struct {
	Records []domain.MatchRecord
	Total   int64
}

type MatchRepository interface {
	// UpsertBatch applies the whole ranked list in one transaction, keyed on
	// (campaign_id, creator_id): existing pairs get their scores and
	// updated_at replaced, never duplicated.
	UpsertBatch(ctx context.Context, records []domain.MatchRecord) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, minScore float64, limit, offset int) (MatchPage, error)
	DeleteByCreator(ctx context.Context, creatorID uuid.UUID) error
	DeleteByCampaign(ctx context.Context, campaignID uuid.UUID) error
}

type OutboxEvent struct {
	EventID       uuid.UUID
	EventType     string
	PartitionKey  string
	Payload       []byte
	OccurredAt    time.Time
	SchemaVersion string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
}
