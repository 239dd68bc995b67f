package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

// Client calls the OpenAI embeddings API. Every request runs under the
// configured timeout and the client never retries; transient failures
// surface as EmbeddingError with a reason code and the caller decides.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Dimension() int { return c.cfg.Dimension }

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: embedding text is empty", domain.ErrInvalidInput)
	}

	body, err := json.Marshal(embeddingRequest{Model: c.cfg.Model, Input: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, domain.NewEmbeddingError(domain.EmbeddingFailureTimeout, err)
		}
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureUpstream,
			fmt.Errorf("embeddings api returned %d: %s", resp.StatusCode, truncate(raw, 256)))
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureInvalidResponse, err)
	}
	if decoded.Error != nil {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureUpstream,
			fmt.Errorf("embeddings api error: %s", decoded.Error.Message))
	}
	if len(decoded.Data) == 0 {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureInvalidResponse,
			errors.New("embeddings api returned no data"))
	}
	vector := decoded.Data[0].Embedding
	if len(vector) != c.cfg.Dimension {
		return nil, domain.NewEmbeddingError(domain.EmbeddingFailureInvalidResponse,
			fmt.Errorf("expected %d dimensions, got %d", c.cfg.Dimension, len(vector)))
	}
	return vector, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
