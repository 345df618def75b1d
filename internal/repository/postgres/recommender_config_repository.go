package postgres

import (
	"context"
	"errors"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommenderConfigRepository struct {
	DB *gorm.DB
}

var _ recommendation.ConfigRepository = (*RecommenderConfigRepository)(nil)

func NewRecommenderConfigRepository(db *gorm.DB) *RecommenderConfigRepository {
	return &RecommenderConfigRepository{DB: db}
}

func (r *RecommenderConfigRepository) GetConfig(ctx context.Context, name string) (domain.RecommenderConfig, bool, error) {
	var cfg domain.RecommenderConfig

	err := r.DB.WithContext(ctx).
		Where("name = ?", name).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommenderConfig{}, false, nil
	}
	if err != nil {
		return domain.RecommenderConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *RecommenderConfigRepository) UpsertConfig(ctx context.Context, cfg domain.RecommenderConfig) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"collaborative_weight",
				"content_weight",
				"position_decay",
				"oversize_factor",
				"similarity_threshold",
				"max_similar_students",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
