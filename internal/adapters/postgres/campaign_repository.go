package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"gorm.io/gorm"
)

type campaignRepository struct {
	db *gorm.DB
}

func (r *campaignRepository) GetByID(ctx context.Context, campaignID uuid.UUID) (domain.Campaign, error) {
	var rec campaignModel
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, err
	}
	return toDomainCampaign(rec), nil
}
