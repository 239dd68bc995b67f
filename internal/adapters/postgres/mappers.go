package postgres

import (
	"encoding/json"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

func toDomainCreator(rec creatorModel) domain.Creator {
	var embedding []float32
	if len(rec.Embedding) > 0 {
		// A corrupt column falls back to nil, which reads as "no embedding"
		// and lets the backfill worker regenerate it.
		_ = json.Unmarshal(rec.Embedding, &embedding)
	}
	return domain.Creator{
		CreatorID:          rec.CreatorID,
		Name:               rec.Name,
		Email:              rec.Email,
		Platform:           domain.Platform(rec.Platform),
		ChannelName:        rec.ChannelName,
		Niche:              rec.Niche,
		About:              rec.About,
		Language:           rec.Language,
		Country:            rec.Country,
		FollowersCount:     rec.FollowersCount,
		EngagementRate:     rec.EngagementRate,
		AvgViews:           rec.AvgViews,
		CollaborationRate:  rec.CollaborationRate,
		Rating:             rec.Rating,
		Embedding:          embedding,
		EmbeddingUpdatedAt: rec.EmbeddingUpdatedAt,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func toDomainCampaign(rec campaignModel) domain.Campaign {
	var useCases []string
	if len(rec.KeyUseCases) > 0 {
		_ = json.Unmarshal(rec.KeyUseCases, &useCases)
	}
	return domain.Campaign{
		CampaignID:         rec.CampaignID,
		ProductName:        rec.ProductName,
		BrandName:          rec.BrandName,
		ProductDescription: rec.ProductDescription,
		TargetAudience:     rec.TargetAudience,
		KeyUseCases:        useCases,
		CampaignGoal:       rec.CampaignGoal,
		ProductNiche:       rec.ProductNiche,
		TotalBudget:        rec.TotalBudget,
		Status:             domain.CampaignStatus(rec.Status),
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func toDomainMatch(rec matchModel) domain.MatchRecord {
	return domain.MatchRecord{
		MatchID:         rec.MatchID,
		CampaignID:      rec.CampaignID,
		CreatorID:       rec.CreatorID,
		Score:           rec.Score,
		NicheScore:      rec.NicheScore,
		AudienceScore:   rec.AudienceScore,
		EngagementScore: rec.EngagementScore,
		BudgetScore:     rec.BudgetScore,
		Similarity:      rec.Similarity,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func toMatchModel(rec domain.MatchRecord) matchModel {
	return matchModel{
		MatchID:         rec.MatchID,
		CampaignID:      rec.CampaignID,
		CreatorID:       rec.CreatorID,
		Score:           rec.Score,
		NicheScore:      rec.NicheScore,
		AudienceScore:   rec.AudienceScore,
		EngagementScore: rec.EngagementScore,
		BudgetScore:     rec.BudgetScore,
		Similarity:      rec.Similarity,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
