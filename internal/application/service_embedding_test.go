package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

func embeddingService(creators *fakeCreators, index *fakeIndex, embedder *fakeEmbedder, matches *fakeMatches) *Service {
	return NewService(Dependencies{
		Creators:   creators,
		Campaigns:  &fakeCampaigns{},
		Matches:    matches,
		EventDedup: newFakeDedup(),
		Index:      index,
		Embedder:   embedder,
	})
}

func TestGenerateCreatorEmbedding(t *testing.T) {
	t.Parallel()

	creator := testCreator("fitness", 6, 2_500)
	creator.Embedding = nil
	creators := newFakeCreators(creator)
	index := newFakeIndex()
	svc := embeddingService(creators, index, &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}, &fakeMatches{})

	if err := svc.GenerateCreatorEmbedding(context.Background(), creator.CreatorID); err != nil {
		t.Fatalf("GenerateCreatorEmbedding: %v", err)
	}
	stored, err := creators.GetByID(context.Background(), creator.CreatorID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.HasEmbedding() || stored.EmbeddingUpdatedAt == nil {
		t.Fatalf("embedding not persisted: %+v", stored)
	}
	if _, ok := index.upserts[creator.CreatorID]; !ok {
		t.Fatal("index entry not upserted")
	}
}

func TestGenerateCreatorEmbeddingAnnouncesEvent(t *testing.T) {
	t.Parallel()

	creator := testCreator("fitness", 6, 2_500)
	creator.Embedding = nil
	outbox := &fakeOutbox{}
	svc := NewService(Dependencies{
		Creators:   newFakeCreators(creator),
		Campaigns:  &fakeCampaigns{},
		Matches:    &fakeMatches{},
		Outbox:     outbox,
		EventDedup: newFakeDedup(),
		Index:      newFakeIndex(),
		Embedder:   &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}},
	})

	if err := svc.GenerateCreatorEmbedding(context.Background(), creator.CreatorID); err != nil {
		t.Fatalf("GenerateCreatorEmbedding: %v", err)
	}
	if len(outbox.events) != 1 || outbox.events[0].EventType != EventTypeCreatorEmbedded {
		t.Fatalf("expected one creator.embedded outbox event, got %+v", outbox.events)
	}
	var payload creatorEventPayload
	if err := json.Unmarshal(outbox.events[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.CreatorID != creator.CreatorID.String() || payload.EventID == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestGenerateCreatorEmbeddingUnknownCreator(t *testing.T) {
	t.Parallel()

	svc := embeddingService(newFakeCreators(), newFakeIndex(), &fakeEmbedder{vector: []float32{1}}, &fakeMatches{})
	if err := svc.GenerateCreatorEmbedding(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.GenerateCreatorEmbedding(context.Background(), uuid.Nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("nil id accepted: %v", err)
	}
}

func TestGenerateBatchEmbeddingsReportsPerItem(t *testing.T) {
	t.Parallel()

	good := testCreator("fitness", 6, 2_500)
	good.Embedding = nil
	creators := newFakeCreators(good)
	svc := embeddingService(creators, newFakeIndex(), &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	missing := uuid.New()
	report, err := svc.GenerateBatchEmbeddings(context.Background(), []uuid.UUID{good.CreatorID, missing})
	if err != nil {
		t.Fatalf("GenerateBatchEmbeddings: %v", err)
	}
	if report.Requested != 2 || report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	for _, item := range report.Items {
		if item.CreatorID == good.CreatorID && !item.OK() {
			t.Fatalf("good creator failed: %+v", item)
		}
		if item.CreatorID == missing && item.OK() {
			t.Fatalf("missing creator succeeded: %+v", item)
		}
	}
}

func TestGenerateBatchEmbeddingsDefaultsToMissing(t *testing.T) {
	t.Parallel()

	withVector := testCreator("fitness", 6, 2_500)
	without := testCreator("food", 4, 1_000)
	without.Embedding = nil
	creators := newFakeCreators(withVector, without)
	svc := embeddingService(creators, newFakeIndex(), &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	report, err := svc.GenerateBatchEmbeddings(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateBatchEmbeddings: %v", err)
	}
	if report.Requested != 1 {
		t.Fatalf("expected only the embedding-less creator, got %+v", report)
	}
}

func TestGenerateBatchEmbeddingsSizeLimit(t *testing.T) {
	t.Parallel()

	svc := embeddingService(newFakeCreators(), newFakeIndex(), &fakeEmbedder{vector: []float32{1}}, &fakeMatches{})
	ids := make([]uuid.UUID, 1001)
	for i := range ids {
		ids[i] = uuid.New()
	}
	if _, err := svc.GenerateBatchEmbeddings(context.Background(), ids); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("oversized batch accepted: %v", err)
	}
}

func TestRebuildIndex(t *testing.T) {
	t.Parallel()

	a := testCreator("fitness", 6, 2_500)
	b := testCreator("food", 4, 1_000)
	noVector := testCreator("travel", 3, 500)
	noVector.Embedding = nil
	index := newFakeIndex()
	svc := embeddingService(newFakeCreators(a, b, noVector), index, &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	count, err := svc.RebuildIndex(context.Background())
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if count != 2 || len(index.upserts) != 2 {
		t.Fatalf("expected 2 indexed creators, got count=%d upserts=%d", count, len(index.upserts))
	}
	if _, ok := index.upserts[noVector.CreatorID]; ok {
		t.Fatal("creator without embedding should not be indexed")
	}
}

func creatorEvent(t *testing.T, eventID string, creatorID uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"event_id":   eventID,
		"creator_id": creatorID.String(),
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func TestHandleCreatorUpdated(t *testing.T) {
	t.Parallel()

	creator := testCreator("fitness", 6, 2_500)
	creators := newFakeCreators(creator)
	index := newFakeIndex()
	svc := embeddingService(creators, index, &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	if err := svc.HandleCreatorUpdated(context.Background(), creatorEvent(t, "evt-1", creator.CreatorID)); err != nil {
		t.Fatalf("HandleCreatorUpdated: %v", err)
	}
	stored, _ := creators.GetByID(context.Background(), creator.CreatorID)
	if stored.HasEmbedding() {
		t.Fatal("embedding should be cleared on update")
	}
	if len(index.deletes) != 1 || index.deletes[0] != creator.CreatorID {
		t.Fatalf("index entry not dropped: %v", index.deletes)
	}

	// Same event id again is a no-op.
	if err := svc.HandleCreatorUpdated(context.Background(), creatorEvent(t, "evt-1", creator.CreatorID)); err != nil {
		t.Fatalf("duplicate event errored: %v", err)
	}
	if len(index.deletes) != 1 {
		t.Fatalf("duplicate event reprocessed: %v", index.deletes)
	}
}

func TestHandleCreatorEmbedded(t *testing.T) {
	t.Parallel()

	creator := testCreator("fitness", 6, 2_500)
	index := newFakeIndex()
	svc := embeddingService(newFakeCreators(creator), index, &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	if err := svc.HandleCreatorEmbedded(context.Background(), creatorEvent(t, "evt-3", creator.CreatorID)); err != nil {
		t.Fatalf("HandleCreatorEmbedded: %v", err)
	}
	if _, ok := index.upserts[creator.CreatorID]; !ok {
		t.Fatal("index entry not upserted from stored embedding")
	}

	// Same event id again is a no-op.
	delete(index.upserts, creator.CreatorID)
	if err := svc.HandleCreatorEmbedded(context.Background(), creatorEvent(t, "evt-3", creator.CreatorID)); err != nil {
		t.Fatalf("duplicate event errored: %v", err)
	}
	if len(index.upserts) != 0 {
		t.Fatalf("duplicate event reprocessed: %v", index.upserts)
	}
}

func TestHandleCreatorEmbeddedSkipsGoneOrCleared(t *testing.T) {
	t.Parallel()

	cleared := testCreator("fitness", 6, 2_500)
	cleared.Embedding = nil
	index := newFakeIndex()
	svc := embeddingService(newFakeCreators(cleared), index, &fakeEmbedder{vector: []float32{1, 0, 0}}, &fakeMatches{})

	if err := svc.HandleCreatorEmbedded(context.Background(), creatorEvent(t, "evt-4", uuid.New())); err != nil {
		t.Fatalf("deleted creator should be tolerated: %v", err)
	}
	if err := svc.HandleCreatorEmbedded(context.Background(), creatorEvent(t, "evt-5", cleared.CreatorID)); err != nil {
		t.Fatalf("cleared embedding should be tolerated: %v", err)
	}
	if len(index.upserts) != 0 {
		t.Fatalf("nothing should be indexed: %v", index.upserts)
	}
}

func TestHandleCreatorDeleted(t *testing.T) {
	t.Parallel()

	creator := testCreator("fitness", 6, 2_500)
	creators := newFakeCreators(creator)
	index := newFakeIndex()
	matches := &fakeMatches{upserted: []domain.MatchRecord{
		{MatchID: uuid.New(), CampaignID: uuid.New(), CreatorID: creator.CreatorID, Score: 80},
	}}
	svc := embeddingService(creators, index, &fakeEmbedder{vector: []float32{1, 0, 0}}, matches)

	if err := svc.HandleCreatorDeleted(context.Background(), creatorEvent(t, "evt-2", creator.CreatorID)); err != nil {
		t.Fatalf("HandleCreatorDeleted: %v", err)
	}
	if _, err := creators.GetByID(context.Background(), creator.CreatorID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("creator row should be gone")
	}
	if len(matches.upserted) != 0 {
		t.Fatalf("match records should cascade: %v", matches.upserted)
	}
	if len(index.deletes) != 1 {
		t.Fatalf("index entry not dropped: %v", index.deletes)
	}
}

func TestHandleCreatorEventMalformed(t *testing.T) {
	t.Parallel()

	svc := embeddingService(newFakeCreators(), newFakeIndex(), &fakeEmbedder{vector: []float32{1}}, &fakeMatches{})
	if err := svc.HandleCreatorUpdated(context.Background(), []byte("not json")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("malformed payload accepted: %v", err)
	}
	if err := svc.HandleCreatorDeleted(context.Background(), []byte(`{"event_id":"x"}`)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("payload without creator_id accepted: %v", err)
	}
}
