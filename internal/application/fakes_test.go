package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
)

type fakeCreators struct {
	mu       sync.Mutex
	creators map[uuid.UUID]domain.Creator
}

func newFakeCreators(creators ...domain.Creator) *fakeCreators {
	f := &fakeCreators{creators: map[uuid.UUID]domain.Creator{}}
	for _, c := range creators {
		f.creators[c.CreatorID] = c
	}
	return f
}

func (f *fakeCreators) GetByID(_ context.Context, creatorID uuid.UUID) (domain.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.creators[creatorID]
	if !ok {
		return domain.Creator{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCreators) ListMissingEmbeddings(_ context.Context, limit int) ([]domain.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Creator, 0)
	for _, c := range f.creators {
		if !c.HasEmbedding() {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCreators) ForEachWithEmbedding(_ context.Context, _ int, fn func(domain.Creator) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.creators {
		if !c.HasEmbedding() {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCreators) UpdateEmbedding(_ context.Context, creatorID uuid.UUID, vector []float32, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.creators[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Embedding = vector
	c.EmbeddingUpdatedAt = &at
	f.creators[creatorID] = c
	return nil
}

func (f *fakeCreators) ClearEmbedding(_ context.Context, creatorID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.creators[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Embedding = nil
	c.EmbeddingUpdatedAt = nil
	c.UpdatedAt = at
	f.creators[creatorID] = c
	return nil
}

func (f *fakeCreators) Delete(_ context.Context, creatorID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.creators[creatorID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.creators, creatorID)
	return nil
}

type fakeCampaigns struct {
	campaigns map[uuid.UUID]domain.Campaign
}

func (f *fakeCampaigns) GetByID(_ context.Context, campaignID uuid.UUID) (domain.Campaign, error) {
	c, ok := f.campaigns[campaignID]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return c, nil
}

type fakeMatches struct {
	mu       sync.Mutex
	upserted []domain.MatchRecord
	deleted  []uuid.UUID
}

func (f *fakeMatches) UpsertBatch(_ context.Context, records []domain.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeMatches) ListByCampaign(_ context.Context, campaignID uuid.UUID, minScore float64, limit, offset int) (ports.MatchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MatchRecord, 0)
	for _, rec := range f.upserted {
		if rec.CampaignID == campaignID && rec.Score >= minScore {
			out = append(out, rec)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return ports.MatchPage{Records: out, Total: total}, nil
}

func (f *fakeMatches) DeleteByCreator(_ context.Context, creatorID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, creatorID)
	kept := f.upserted[:0]
	for _, rec := range f.upserted {
		if rec.CreatorID != creatorID {
			kept = append(kept, rec)
		}
	}
	f.upserted = kept
	return nil
}

func (f *fakeMatches) DeleteByCampaign(_ context.Context, campaignID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.upserted[:0]
	for _, rec := range f.upserted {
		if rec.CampaignID != campaignID {
			kept = append(kept, rec)
		}
	}
	f.upserted = kept
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (f *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, _ int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }

func (f *fakeOutbox) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

type fakeDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: map[string]bool{}} }

func (f *fakeDedup) IsDuplicate(_ context.Context, eventID string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[eventID], nil
}

func (f *fakeDedup) MarkProcessed(_ context.Context, eventID, _ string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[eventID] = true
	return nil
}

type fakeIndex struct {
	mu         sync.Mutex
	candidates []ports.IndexCandidate
	upserts    map[uuid.UUID][]float32
	deletes    []uuid.UUID
	queryErr   error
}

func newFakeIndex(candidates ...ports.IndexCandidate) *fakeIndex {
	return &fakeIndex{candidates: candidates, upserts: map[uuid.UUID][]float32{}}
}

func (f *fakeIndex) Upsert(creatorID uuid.UUID, vector []float32, _ ports.CreatorAttributes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts[creatorID] = vector
	return nil
}

func (f *fakeIndex) Delete(creatorID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, creatorID)
}

func (f *fakeIndex) Query(_ []float32, k int, _ ports.CandidateFilter) ([]ports.IndexCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := f.candidates
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (f *fakeIndex) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.candidates)
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) Dimension() int { return len(f.vector) }

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}
