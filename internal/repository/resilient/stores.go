package resilient

import (
	"context"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"
)

type ProfileStore struct {
	next recommendation.ProfileRepository
	b    *breaker
}

var _ recommendation.ProfileRepository = (*ProfileStore)(nil)

func NewProfileStore(next recommendation.ProfileRepository, s Settings) *ProfileStore {
	return &ProfileStore{next: next, b: newBreaker("profile_store", s)}
}

func (s *ProfileStore) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return call(ctx, s.b, func(ctx context.Context) (domain.User, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *ProfileStore) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	return call(ctx, s.b, func(ctx context.Context) ([]domain.User, error) {
		return s.next.FindByIDs(ctx, ids)
	})
}

func (s *ProfileStore) FindEducators(ctx context.Context) ([]domain.User, error) {
	return call(ctx, s.b, func(ctx context.Context) ([]domain.User, error) {
		return s.next.FindEducators(ctx)
	})
}

type SessionStore struct {
	next recommendation.SessionRepository
	b    *breaker
}

var _ recommendation.SessionRepository = (*SessionStore)(nil)

func NewSessionStore(next recommendation.SessionRepository, s Settings) *SessionStore {
	return &SessionStore{next: next, b: newBreaker("session_store", s)}
}

func (s *SessionStore) FindSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.SessionHistory, error) {
	return call(ctx, s.b, func(ctx context.Context) ([]domain.SessionHistory, error) {
		return s.next.FindSessions(ctx, filter)
	})
}

type InteractionStore struct {
	next recommendation.InteractionRepository
	b    *breaker
}

var _ recommendation.InteractionRepository = (*InteractionStore)(nil)

func NewInteractionStore(next recommendation.InteractionRepository, s Settings) *InteractionStore {
	return &InteractionStore{next: next, b: newBreaker("interaction_store", s)}
}

func (s *InteractionStore) FindInteractions(ctx context.Context, filter domain.InteractionFilter) ([]domain.Interaction, error) {
	return call(ctx, s.b, func(ctx context.Context) ([]domain.Interaction, error) {
		return s.next.FindInteractions(ctx, filter)
	})
}

func (s *InteractionStore) AppendInteraction(ctx context.Context, interaction *domain.Interaction) error {
	_, err := call(ctx, s.b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.next.AppendInteraction(ctx, interaction)
	})
	return err
}

type ConfigStore struct {
	next recommendation.ConfigRepository
	b    *breaker
}

var _ recommendation.ConfigRepository = (*ConfigStore)(nil)

func NewConfigStore(next recommendation.ConfigRepository, s Settings) *ConfigStore {
	return &ConfigStore{next: next, b: newBreaker("config_store", s)}
}

type configLookup struct {
	cfg   domain.RecommenderConfig
	found bool
}

func (s *ConfigStore) GetConfig(ctx context.Context, name string) (domain.RecommenderConfig, bool, error) {
	res, err := call(ctx, s.b, func(ctx context.Context) (configLookup, error) {
		cfg, ok, err := s.next.GetConfig(ctx, name)
		return configLookup{cfg: cfg, found: ok}, err
	})
	return res.cfg, res.found, err
}

func (s *ConfigStore) UpsertConfig(ctx context.Context, cfg domain.RecommenderConfig) error {
	_, err := call(ctx, s.b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.next.UpsertConfig(ctx, cfg)
	})
	return err
}
