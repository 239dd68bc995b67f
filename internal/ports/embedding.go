package ports

import "context"

// Embedder converts text into a fixed-dimension vector. Implementations must
// enforce a bounded timeout and must not retry on their own; retry policy
// belongs to callers.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
