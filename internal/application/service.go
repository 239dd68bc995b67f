package application

import (
	"time"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
)

// ScoreWeights controls how much each factor contributes to the composite
// score. Weights are normalized by their sum, so any positive scale works.
// Defaults give semantic similarity and structured fit equal halves.
type ScoreWeights struct {
	Similarity float64
	Niche      float64
	Audience   float64
	Engagement float64
	Budget     float64
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Similarity: 0.5,
		Niche:      0.2,
		Audience:   0.1,
		Engagement: 0.1,
		Budget:     0.1,
	}
}

func (w ScoreWeights) sum() float64 {
	return w.Similarity + w.Niche + w.Audience + w.Engagement + w.Budget
}

type Config struct {
	ServiceName string

	Weights             ScoreWeights
	AssumedCreatorCount int
	MinCandidateFetch   int
	OverFetchFactor     int

	EmbeddingCacheTTL  time.Duration
	EventDedupTTL      time.Duration
	HydrateConcurrency int
	BackfillBatchSize  int
}

type Service struct {
	cfg        Config
	creators   ports.CreatorRepository
	campaigns  ports.CampaignRepository
	matches    ports.MatchRepository
	outbox     ports.OutboxRepository
	eventDedup ports.EventDedupRepository
	index      ports.VectorIndex
	embedder   ports.Embedder
	cache      ports.Cache
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Creators   ports.CreatorRepository
	Campaigns  ports.CampaignRepository
	Matches    ports.MatchRepository
	Outbox     ports.OutboxRepository
	EventDedup ports.EventDedupRepository
	Index      ports.VectorIndex
	Embedder   ports.Embedder
	Cache      ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "M60-Creator-Matching-Engine"
	}
	if cfg.Weights.sum() <= 0 {
		cfg.Weights = DefaultScoreWeights()
	}
	if cfg.AssumedCreatorCount <= 0 {
		cfg.AssumedCreatorCount = 10
	}
	if cfg.MinCandidateFetch <= 0 {
		cfg.MinCandidateFetch = 50
	}
	if cfg.OverFetchFactor <= 0 {
		cfg.OverFetchFactor = 3
	}
	if cfg.EmbeddingCacheTTL <= 0 {
		cfg.EmbeddingCacheTTL = time.Hour
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	if cfg.HydrateConcurrency <= 0 {
		cfg.HydrateConcurrency = 8
	}
	if cfg.BackfillBatchSize <= 0 {
		cfg.BackfillBatchSize = 100
	}

	return &Service{
		cfg:        cfg,
		creators:   deps.Creators,
		campaigns:  deps.Campaigns,
		matches:    deps.Matches,
		outbox:     deps.Outbox,
		eventDedup: deps.EventDedup,
		index:      deps.Index,
		embedder:   deps.Embedder,
		cache:      deps.Cache,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}
