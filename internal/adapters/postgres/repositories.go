package postgres

import (
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Creators   ports.CreatorRepository
	Campaigns  ports.CampaignRepository
	Matches    ports.MatchRepository
	Outbox     ports.OutboxRepository
	EventDedup ports.EventDedupRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Creators:   &creatorRepository{db: db},
		Campaigns:  &campaignRepository{db: db},
		Matches:    &matchRepository{db: db},
		Outbox:     &outboxRepository{db: db},
		EventDedup: &eventDedupRepository{db: db},
	}
}
