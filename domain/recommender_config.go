package domain

import "time"

// RecommenderConfig is a tunable row keyed by name ("default" unless an
// experiment overrides it). Zero fields keep the built-in default.
type RecommenderConfig struct {
	Name string `json:"name" gorm:"column:name;primaryKey"`

	CollaborativeWeight float64 `json:"collaborative_weight" gorm:"column:collaborative_weight"`
	ContentWeight       float64 `json:"content_weight" gorm:"column:content_weight"`
	PositionDecay       float64 `json:"position_decay" gorm:"column:position_decay"`
	OversizeFactor      float64 `json:"oversize_factor" gorm:"column:oversize_factor"`

	SimilarityThreshold float64 `json:"similarity_threshold" gorm:"column:similarity_threshold"`
	MaxSimilarStudents  int     `json:"max_similar_students" gorm:"column:max_similar_students"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (RecommenderConfig) TableName() string {
	return "recommender_config"
}
