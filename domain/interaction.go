package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionBookmark = "bookmark"
	InteractionShare    = "share"
	InteractionMessage  = "message"
	InteractionBook     = "book"
	InteractionCancel   = "cancel"
)

const (
	SourceRecommendation = "recommendation"
	SourceSearch         = "search"
	// SourceRequestLog marks entries the service writes for its own
	// recommendation requests. They never count as student signal.
	SourceRequestLog = "recommendation_request"
)

const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// Interaction is an append-only behavioural event.
type Interaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"column:user_id;not null;index" json:"user_id"`
	TargetID        *uint             `gorm:"column:target_id" json:"target_id,omitempty"`
	InteractionType string            `gorm:"column:interaction_type;not null" json:"interaction_type"`
	SearchQuery     string            `gorm:"column:search_query" json:"search_query,omitempty"`
	Filters         datatypes.JSONMap `gorm:"column:filters;type:jsonb" json:"filters,omitempty"`
	Source          string            `gorm:"column:source" json:"source,omitempty"`
	TimeSpent       float64           `gorm:"column:time_spent" json:"time_spent"` // seconds
	EngagementLevel string            `gorm:"column:engagement_level" json:"engagement_level,omitempty"`
	IsRecommended   bool              `gorm:"column:is_recommendation;default:false" json:"is_recommendation"`
	AlgorithmUsed   string            `gorm:"column:algorithm_used" json:"algorithm_used,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}

func (i Interaction) IsRequestLog() bool {
	return i.Source == SourceRequestLog
}

type InteractionFilter struct {
	UserID          uint
	Since           time.Time
	ExcludeSource   string
	RecommendedOnly bool
	Limit           int
}
