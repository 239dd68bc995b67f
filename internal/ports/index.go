package ports

import "github.com/google/uuid"

// CreatorAttributes are the structured fields the index filters on before
// ranking. Keeping them beside the vector lets the filter run pre-ranking
// instead of post-filtering the top-K.
type CreatorAttributes struct {
	Followers  int64
	Engagement float64
	Niche      string
}

// CandidateFilter narrows the candidate pool with non-semantic constraints.
// Zero values mean unconstrained.
type CandidateFilter struct {
	MinFollowers  int64
	MaxFollowers  int64
	MinEngagement float64
	Niche         string
}

func (f CandidateFilter) Matches(attrs CreatorAttributes) bool {
	if f.MinFollowers > 0 && attrs.Followers < f.MinFollowers {
		return false
	}
	if f.MaxFollowers > 0 && attrs.Followers > f.MaxFollowers {
		return false
	}
	if f.MinEngagement > 0 && attrs.Engagement < f.MinEngagement {
		return false
	}
	if f.Niche != "" && attrs.Niche != f.Niche {
		return false
	}
	return true
}

type IndexCandidate struct {
	CreatorID  uuid.UUID
	Similarity float64
}

// VectorIndex is a rebuildable projection of creator embeddings. It owns no
// authoritative data: dropping it and replaying creator embeddings restores
// it completely. Mutations for one creator must not block queries for others.
type VectorIndex interface {
	Upsert(creatorID uuid.UUID, vector []float32, attrs CreatorAttributes) error
	Delete(creatorID uuid.UUID)
	// Query returns up to k candidates passing the filter, ordered by cosine
	// similarity (mapped to [0,1]) descending, creator id ascending on ties.
	Query(vector []float32, k int, filter CandidateFilter) ([]IndexCandidate, error)
	Size() int
}
