package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
)

type stubConsumer struct {
	msgs []Message
}

func (s *stubConsumer) Poll(_ context.Context, _ int) ([]Message, error) {
	out := s.msgs
	s.msgs = nil
	return out, nil
}

type recordingHandler struct {
	updated  [][]byte
	deleted  [][]byte
	embedded [][]byte
}

func (h *recordingHandler) HandleCreatorUpdated(_ context.Context, payload []byte) error {
	h.updated = append(h.updated, payload)
	return nil
}

func (h *recordingHandler) HandleCreatorDeleted(_ context.Context, payload []byte) error {
	h.deleted = append(h.deleted, payload)
	return nil
}

func (h *recordingHandler) HandleCreatorEmbedded(_ context.Context, payload []byte) error {
	h.embedded = append(h.embedded, payload)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsumerDispatchesConfiguredTopics(t *testing.T) {
	t.Parallel()

	topics := Topics{
		CreatorUpdated:  "viralforge.creator.updated.v2",
		CreatorDeleted:  "viralforge.creator.deleted.v2",
		CreatorEmbedded: "viralforge.creator.embedded.v2",
	}
	consumer := &stubConsumer{msgs: []Message{
		{Topic: topics.CreatorUpdated, Payload: []byte("u")},
		{Topic: topics.CreatorDeleted, Payload: []byte("d")},
		{Topic: topics.CreatorEmbedded, Payload: []byte("e")},
		{Topic: application.EventTypeCreatorUpdated, Payload: []byte("stray")},
	}}
	handler := &recordingHandler{}
	worker := NewConsumerWorker(testLogger(), consumer, handler, topics, time.Second)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce: %v", err)
	}
	if len(handler.updated) != 1 || string(handler.updated[0]) != "u" {
		t.Fatalf("updated dispatch wrong: %q", handler.updated)
	}
	if len(handler.deleted) != 1 || string(handler.deleted[0]) != "d" {
		t.Fatalf("deleted dispatch wrong: %q", handler.deleted)
	}
	if len(handler.embedded) != 1 || string(handler.embedded[0]) != "e" {
		t.Fatalf("embedded dispatch wrong: %q", handler.embedded)
	}
}

func TestConsumerDefaultsTopicNames(t *testing.T) {
	t.Parallel()

	consumer := &stubConsumer{msgs: []Message{
		{Topic: application.EventTypeCreatorUpdated, Payload: []byte("u")},
		{Topic: application.EventTypeCreatorEmbedded, Payload: []byte("e")},
	}}
	handler := &recordingHandler{}
	worker := NewConsumerWorker(testLogger(), consumer, handler, Topics{}, time.Second)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce: %v", err)
	}
	if len(handler.updated) != 1 || len(handler.embedded) != 1 {
		t.Fatalf("default topics not dispatched: %+v", handler)
	}
}
