package vectorindex

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type entry struct {
	vector []float32
	norm   float64
	attrs  ports.CreatorAttributes
}

// Memory is an in-process vector index over creator embeddings. It holds a
// copy of each vector plus the filterable attributes, guarded by a single
// RWMutex: queries share the read lock, mutations take the write lock.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	entries   map[uuid.UUID]entry
}

func NewMemory(dimension int) *Memory {
	return &Memory{
		dimension: dimension,
		entries:   map[uuid.UUID]entry{},
	}
}

func (m *Memory) Upsert(creatorID uuid.UUID, vector []float32, attrs ports.CreatorAttributes) error {
	if len(vector) != m.dimension {
		return ErrDimensionMismatch
	}
	copied := make([]float32, len(vector))
	copy(copied, vector)

	m.mu.Lock()
	m.entries[creatorID] = entry{vector: copied, norm: norm(copied), attrs: attrs}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(creatorID uuid.UUID) {
	m.mu.Lock()
	delete(m.entries, creatorID)
	m.mu.Unlock()
}

func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Query filters first, then ranks by cosine similarity mapped to [0,1].
// Ties break on creator id ascending so identical inputs rank identically.
func (m *Memory) Query(vector []float32, k int, filter ports.CandidateFilter) ([]ports.IndexCandidate, error) {
	if len(vector) != m.dimension {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}
	queryNorm := norm(vector)

	m.mu.RLock()
	candidates := make([]ports.IndexCandidate, 0, len(m.entries))
	for creatorID, e := range m.entries {
		if !filter.Matches(e.attrs) {
			continue
		}
		candidates = append(candidates, ports.IndexCandidate{
			CreatorID:  creatorID,
			Similarity: cosine(vector, queryNorm, e.vector, e.norm),
		})
	}
	m.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].CreatorID.String() < candidates[j].CreatorID.String()
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// cosine is 1 - cosine_distance, clamped to [0,1]. Negative cosines flatten
// to 0: embeddings this index holds are non-negative in practice and anything
// anti-aligned is equally useless as a candidate.
func cosine(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (normA * normB)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
