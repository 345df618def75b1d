package recommendation

import (
	"context"
	"time"

	"tutorMarket/domain"
)

// ---- Repository interfaces ----

// ProfileRepository reads users. FindByID returns ErrUserNotFound for
// unknown ids.
type ProfileRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
	FindEducators(ctx context.Context) ([]domain.User, error)
}

type SessionRepository interface {
	FindSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.SessionHistory, error)
}

type InteractionRepository interface {
	FindInteractions(ctx context.Context, filter domain.InteractionFilter) ([]domain.Interaction, error)
	AppendInteraction(ctx context.Context, interaction *domain.Interaction) error
}

type ConfigRepository interface {
	GetConfig(ctx context.Context, name string) (domain.RecommenderConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.RecommenderConfig) error
}

// Cache stores finished recommendation lists. Entries are snapshots and
// are never modified after Set.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.ScoredCandidate, bool, error)
	Set(ctx context.Context, key string, recs []domain.ScoredCandidate, ttl time.Duration) error
	InvalidateStudent(ctx context.Context, studentID uint) error
}

// ---- Strategy capability ----

type Recommender interface {
	Name() string
	Generate(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, error)
}

type FeatureSource interface {
	ExtractFeatures(ctx context.Context, userID uint) (domain.FeatureRecord, bool)
}
