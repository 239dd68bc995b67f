package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, dimension int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Dimension: dimension,
		Timeout:   2 * time.Second,
	})
	return client, srv
}

func embeddingBody(dim int) string {
	parts := make([]string, dim)
	for i := range parts {
		parts[i] = "0.5"
	}
	return fmt.Sprintf(`{"data":[{"embedding":[%s]}]}`, strings.Join(parts, ","))
}

func TestEmbedSuccess(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, embeddingBody(4))
	}, 4)

	vector, err := client.Embed(context.Background(), "fitness supplement campaign")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vector) != 4 {
		t.Fatalf("expected 4 dims, got %d", len(vector))
	}
}

func TestEmbedEmptyText(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}, 4)

	if _, err := client.Embed(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEmbedUpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}, 4)

	_, err := client.Embed(context.Background(), "some text")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	if reason := domain.EmbeddingReason(err); reason != domain.EmbeddingFailureUpstream {
		t.Fatalf("expected upstream_error reason, got %q", reason)
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, embeddingBody(3))
	}, 4)

	_, err := client.Embed(context.Background(), "some text")
	if reason := domain.EmbeddingReason(err); reason != domain.EmbeddingFailureInvalidResponse {
		t.Fatalf("expected invalid_response reason, got %q (%v)", reason, err)
	}
}

func TestEmbedMalformedBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": not-json`)
	}, 4)

	_, err := client.Embed(context.Background(), "some text")
	if reason := domain.EmbeddingReason(err); reason != domain.EmbeddingFailureInvalidResponse {
		t.Fatalf("expected invalid_response reason, got %q (%v)", reason, err)
	}
}

func TestEmbedTimeout(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, embeddingBody(4))
	}, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Embed(ctx, "some text")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	if reason := domain.EmbeddingReason(err); reason != domain.EmbeddingFailureTimeout {
		t.Fatalf("expected timeout reason, got %q", reason)
	}
}

func TestEmbedEmptyData(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}, 4)

	_, err := client.Embed(context.Background(), "some text")
	if reason := domain.EmbeddingReason(err); reason != domain.EmbeddingFailureInvalidResponse {
		t.Fatalf("expected invalid_response reason, got %q (%v)", reason, err)
	}
}
