package postgres

import (
	"time"

	"github.com/google/uuid"
)

type creatorModel struct {
	CreatorID          uuid.UUID  `gorm:"column:creator_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string     `gorm:"column:name"`
	Email              string     `gorm:"column:email"`
	Platform           string     `gorm:"column:platform"`
	ChannelName        string     `gorm:"column:channel_name"`
	Niche              string     `gorm:"column:niche"`
	About              string     `gorm:"column:about"`
	Language           string     `gorm:"column:language"`
	Country            string     `gorm:"column:country"`
	FollowersCount     int64      `gorm:"column:followers_count"`
	EngagementRate     float64    `gorm:"column:engagement_rate"`
	AvgViews           int64      `gorm:"column:avg_views"`
	CollaborationRate  float64    `gorm:"column:collaboration_rate"`
	Rating             float64    `gorm:"column:rating"`
	Embedding          []byte     `gorm:"column:embedding;type:jsonb"`
	EmbeddingUpdatedAt *time.Time `gorm:"column:embedding_updated_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (creatorModel) TableName() string { return "creators" }

type campaignModel struct {
	CampaignID         uuid.UUID `gorm:"column:campaign_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductName        string    `gorm:"column:product_name"`
	BrandName          string    `gorm:"column:brand_name"`
	ProductDescription string    `gorm:"column:product_description"`
	TargetAudience     string    `gorm:"column:target_audience"`
	KeyUseCases        []byte    `gorm:"column:key_use_cases;type:jsonb"`
	CampaignGoal       string    `gorm:"column:campaign_goal"`
	ProductNiche       string    `gorm:"column:product_niche"`
	TotalBudget        float64   `gorm:"column:total_budget"`
	Status             string    `gorm:"column:status"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string { return "campaigns" }

type matchModel struct {
	MatchID         uuid.UUID `gorm:"column:match_id;type:uuid;primaryKey"`
	CampaignID      uuid.UUID `gorm:"column:campaign_id"`
	CreatorID       uuid.UUID `gorm:"column:creator_id"`
	Score           float64   `gorm:"column:score"`
	NicheScore      float64   `gorm:"column:niche_score"`
	AudienceScore   float64   `gorm:"column:audience_score"`
	EngagementScore float64   `gorm:"column:engagement_score"`
	BudgetScore     float64   `gorm:"column:budget_score"`
	Similarity      float64   `gorm:"column:similarity"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (matchModel) TableName() string { return "campaign_matches" }

type outboxModel struct {
	OutboxID      uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       string     `gorm:"column:payload"`
	SchemaVersion string     `gorm:"column:schema_version"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	FirstSeenAt   time.Time  `gorm:"column:first_seen_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	RetryCount    int        `gorm:"column:retry_count"`
	LastError     *string    `gorm:"column:last_error"`
	LastErrorAt   *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "matching_outbox" }

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (eventDedupModel) TableName() string { return "matching_event_dedup" }
