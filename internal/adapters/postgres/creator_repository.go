package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"gorm.io/gorm"
)

type creatorRepository struct {
	db *gorm.DB
}

func (r *creatorRepository) GetByID(ctx context.Context, creatorID uuid.UUID) (domain.Creator, error) {
	var rec creatorModel
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Creator{}, domain.ErrNotFound
		}
		return domain.Creator{}, err
	}
	return toDomainCreator(rec), nil
}

func (r *creatorRepository) ListMissingEmbeddings(ctx context.Context, limit int) ([]domain.Creator, error) {
	var rows []creatorModel
	if err := r.db.WithContext(ctx).
		Where("embedding IS NULL").
		Order("updated_at asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Creator, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainCreator(row))
	}
	return out, nil
}

func (r *creatorRepository) ForEachWithEmbedding(ctx context.Context, batchSize int, fn func(domain.Creator) error) error {
	var rows []creatorModel
	return r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Order("creator_id asc").
		FindInBatches(&rows, batchSize, func(_ *gorm.DB, _ int) error {
			for _, row := range rows {
				if err := fn(toDomainCreator(row)); err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func (r *creatorRepository) UpdateEmbedding(ctx context.Context, creatorID uuid.UUID, vector []float32, at time.Time) error {
	encoded, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&creatorModel{}).Where("creator_id = ?", creatorID).Updates(map[string]any{
		"embedding":            encoded,
		"embedding_updated_at": at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *creatorRepository) ClearEmbedding(ctx context.Context, creatorID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&creatorModel{}).Where("creator_id = ?", creatorID).Updates(map[string]any{
		"embedding":            nil,
		"embedding_updated_at": nil,
		"updated_at":           at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *creatorRepository) Delete(ctx context.Context, creatorID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Delete(&creatorModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
