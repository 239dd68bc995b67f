package domain

import (
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
)

// Well-known niches. The column is free text so new niches can appear
// without a migration; these constants cover the seeded population.
const (
	NicheFitness    = "fitness"
	NicheTechnology = "technology"
	NicheBeauty     = "beauty"
	NicheFood       = "food"
	NicheTravel     = "travel"
	NicheFashion    = "fashion"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Creator is an immutable snapshot of a creator profile. Embedding is nil
// until generated and is cleared whenever the textual fields change; the
// vector index entry follows the same lifecycle.
type Creator struct {
	CreatorID          uuid.UUID
	Name               string
	Email              string
	Platform           Platform
	ChannelName        string
	Niche              string
	About              string
	Language           string
	Country            string
	FollowersCount     int64
	EngagementRate     float64
	AvgViews           int64
	CollaborationRate  float64
	Rating             float64
	Embedding          []float32
	EmbeddingUpdatedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (c Creator) HasEmbedding() bool { return len(c.Embedding) > 0 }

// Campaign embeddings are derived per request and cached by content hash,
// never stored on the row.
type Campaign struct {
	CampaignID         uuid.UUID
	ProductName        string
	BrandName          string
	ProductDescription string
	TargetAudience     string
	KeyUseCases        []string
	CampaignGoal       string
	ProductNiche       string
	TotalBudget        float64
	Status             CampaignStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MatchRecord persists one scored (campaign, creator) pair. The composite
// score is a weighted blend of Similarity (rescaled to 0-100) and the four
// sub-scores; sub-scores are stored verbatim so historical reads survive
// scorer changes.
type MatchRecord struct {
	MatchID         uuid.UUID
	CampaignID      uuid.UUID
	CreatorID       uuid.UUID
	Score           float64
	NicheScore      float64
	AudienceScore   float64
	EngagementScore float64
	BudgetScore     float64
	Similarity      float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
