package recommendation

import (
	"context"
	"errors"
	"fmt"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	highEngagementSeconds = 60
	lowEngagementSeconds  = 10

	warmupLimit       = 5
	warmupConcurrency = 2
)

var DefaultWarmupTopics = []string{"mathematics", "physics", "chemistry", "computer science"}

var validInteractionTypes = map[string]bool{
	domain.InteractionView:     true,
	domain.InteractionClick:    true,
	domain.InteractionBookmark: true,
	domain.InteractionShare:    true,
	domain.InteractionMessage:  true,
	domain.InteractionBook:     true,
	domain.InteractionCancel:   true,
}

func engagementLevel(timeSpentSeconds float64) string {
	switch {
	case timeSpentSeconds > highEngagementSeconds:
		return domain.EngagementHigh
	case timeSpentSeconds < lowEngagementSeconds:
		return domain.EngagementLow
	default:
		return domain.EngagementMedium
	}
}

// TrackInteraction records what a student did with a recommendation and
// drops the student's cached lists.
func (o *Orchestrator) TrackInteraction(ctx context.Context, in domain.Interaction) (domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Interaction{}, fmt.Errorf("context error: %w", err)
	}
	if in.UserID == 0 {
		return domain.Interaction{}, fmt.Errorf("%w: missing user", ErrInvalidInteraction)
	}
	if !validInteractionTypes[in.InteractionType] {
		return domain.Interaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, in.InteractionType)
	}
	if in.TimeSpent < 0 {
		return domain.Interaction{}, fmt.Errorf("%w: negative time spent", ErrInvalidInteraction)
	}

	in.ID = 0
	in.EngagementLevel = engagementLevel(in.TimeSpent)
	if in.Source == "" || in.IsRequestLog() {
		in.Source = domain.SourceRecommendation
	}

	if err := o.interactions.AppendInteraction(ctx, &in); err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to append interaction: %w", err)
	}
	InteractionsTrackedTotal.WithLabelValues(in.InteractionType).Inc()

	if o.cache != nil {
		if err := o.cache.InvalidateStudent(ctx, in.UserID); err != nil {
			logger.Warn("recommendation_cache_invalidate_failed",
				"trace_id", TraceIDFromContext(ctx),
				"student_id", in.UserID,
				"error", err,
			)
		}
	}

	logger.Debug("interaction_tracked",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", in.UserID,
		"type", in.InteractionType,
		"engagement", in.EngagementLevel,
	)
	return in, nil
}

// Warmup precomputes short, unexplained hybrid lists for a set of topics so
// the first real request hits the cache.
func (o *Orchestrator) Warmup(ctx context.Context, studentID uint, topics []string) (int, error) {
	if len(topics) == 0 {
		topics = DefaultWarmupTopics
	}
	opts := Options{
		Limit:              warmupLimit,
		IncludeExplanation: false,
		Algorithm:          AlgorithmHybrid,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	counts := make([]int, len(topics))
	for i, topic := range topics {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts[i] = len(o.GenerateRecommendations(gctx, studentID, topic, opts))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("warmup interrupted: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	logger.Info("recommendations_warmed",
		"trace_id", TraceIDFromContext(ctx),
		"student_id", studentID,
		"topics", len(topics),
		"candidates", total,
	)
	return total, nil
}

// Features exposes the feature record for debugging.
func (o *Orchestrator) Features(ctx context.Context, userID uint) (domain.FeatureRecord, error) {
	feat, ok := o.features.ExtractFeatures(ctx, userID)
	if !ok {
		return domain.FeatureRecord{}, ErrFeaturesUnavailable
	}
	return feat, nil
}

// EnsureStudent rejects educators and unknown users.
func (o *Orchestrator) EnsureStudent(ctx context.Context, userID uint) error {
	user, err := o.profiles.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsEducator {
		return ErrNotStudent
	}
	return nil
}
