package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type matchRepository struct {
	db *gorm.DB
}

func (r *matchRepository) UpsertBatch(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]matchModel, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toMatchModel(rec))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "campaign_id"}, {Name: "creator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "niche_score", "audience_score", "engagement_score",
				"budget_score", "similarity", "updated_at",
			}),
		}).Create(&rows).Error
	})
}

func (r *matchRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID, minScore float64, limit, offset int) (ports.MatchPage, error) {
	query := r.db.WithContext(ctx).Model(&matchModel{}).Where("campaign_id = ?", campaignID)
	if minScore > 0 {
		query = query.Where("score >= ?", minScore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ports.MatchPage{}, err
	}

	var rows []matchModel
	if err := query.
		Order("score desc").
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return ports.MatchPage{}, err
	}
	out := make([]domain.MatchRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainMatch(row))
	}
	return ports.MatchPage{Records: out, Total: total}, nil
}

func (r *matchRepository) DeleteByCreator(ctx context.Context, creatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Delete(&matchModel{}).Error
}

func (r *matchRepository) DeleteByCampaign(ctx context.Context, campaignID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Delete(&matchModel{}).Error
}
