package application

import (
	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

// DetailedSearchInput carries inline campaign fields plus optional structured
// filters; nothing is persisted for this flow.
type DetailedSearchInput struct {
	ProductName        string
	Brand              string
	ProductDescription string
	TargetAudience     string
	KeyUseCases        []string
	CampaignGoal       string
	ProductNiche       string
	TotalBudget        float64

	MinFollowers  int64
	MaxFollowers  int64
	MinEngagement float64
	Limit         int
}

// CampaignSearchInput resolves campaign fields from the campaign store.
type CampaignSearchInput struct {
	CampaignID     uuid.UUID
	MatchThreshold float64
	MatchCount     int
}

// MatchResult is one ranked candidate with the raw numeric scores; display
// formatting is the transport adapter's job.
type MatchResult struct {
	Creator         domain.Creator
	Similarity      float64
	Score           float64
	NicheScore      float64
	AudienceScore   float64
	EngagementScore float64
	BudgetScore     float64
}

type StoredMatchesInput struct {
	CampaignID uuid.UUID
	MinScore   float64
	Limit      int
	Offset     int
}

type StoredMatchesOutput struct {
	Records []domain.MatchRecord
	Total   int64
}

type BatchEmbeddingItem struct {
	CreatorID uuid.UUID
	Error     string
	Reason    domain.EmbeddingFailureReason
}

func (i BatchEmbeddingItem) OK() bool { return i.Error == "" }

type BatchEmbeddingReport struct {
	Requested int
	Succeeded int
	Failed    int
	Items     []BatchEmbeddingItem
}
