package recommendation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"
)

const (
	topTargetsLimit = 5
	maxSearchLength = 200
)

// Metrics aggregates the student's interactions with served recommendations.
func (o *Orchestrator) Metrics(ctx context.Context, studentID uint) (domain.RecommendationMetrics, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationMetrics{}, fmt.Errorf("context error: %w", err)
	}

	rows, err := o.interactions.FindInteractions(ctx, domain.InteractionFilter{
		UserID:          studentID,
		RecommendedOnly: true,
	})
	if err != nil {
		return domain.RecommendationMetrics{}, fmt.Errorf("failed to load interactions: %w", err)
	}

	return summarise(studentID, rows), nil
}

func summarise(studentID uint, rows []domain.Interaction) domain.RecommendationMetrics {
	m := domain.RecommendationMetrics{
		StudentID:        studentID,
		InteractionTypes: map[string]int{},
		TopTargets:       []domain.TargetCount{},
	}

	perTarget := map[uint]int{}
	for _, in := range rows {
		if in.IsRequestLog() {
			m.TotalRecommendationRequests++
			continue
		}
		m.TotalRecommendationInteractions++
		m.InteractionTypes[in.InteractionType]++
		if in.TargetID != nil {
			perTarget[*in.TargetID]++
		}
	}

	for id, n := range perTarget {
		m.TopTargets = append(m.TopTargets, domain.TargetCount{TargetID: id, Count: n})
	}
	sort.Slice(m.TopTargets, func(i, j int) bool {
		a, b := m.TopTargets[i], m.TopTargets[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TargetID < b.TargetID
	})
	if len(m.TopTargets) > topTargetsLimit {
		m.TopTargets = m.TopTargets[:topTargetsLimit]
	}

	if views := m.InteractionTypes[domain.InteractionView]; views > 0 {
		m.Effectiveness = float64(m.InteractionTypes[domain.InteractionBook]) / float64(views) * 100
	}
	return m
}

// TrackSearch stores a free-text search as a view with its extracted
// keywords. The keywords feed the student's topic preferences.
func (o *Orchestrator) TrackSearch(ctx context.Context, userID uint, query string, filters map[string]any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	query = strings.TrimSpace(query)
	if userID == 0 {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidInteraction)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInteraction)
	}
	if utf8.RuneCountInString(query) > maxSearchLength {
		return nil, fmt.Errorf("%w: search query too long", ErrInvalidInteraction)
	}

	keywords := ExtractKeywords(query)
	ctxMap := map[string]any{"keywords": keywords}
	if len(filters) > 0 {
		ctxMap["filters"] = filters
	}

	in := &domain.Interaction{
		UserID:          userID,
		InteractionType: domain.InteractionView,
		SearchQuery:     query,
		Filters:         ctxMap,
		Source:          domain.SourceSearch,
		EngagementLevel: engagementLevel(0),
	}
	if err := o.interactions.AppendInteraction(ctx, in); err != nil {
		return nil, fmt.Errorf("failed to append search: %w", err)
	}
	InteractionsTrackedTotal.WithLabelValues("search").Inc()

	if o.cache != nil {
		if err := o.cache.InvalidateStudent(ctx, userID); err != nil {
			logger.Warn("recommendation_cache_invalidate_failed",
				"trace_id", TraceIDFromContext(ctx),
				"student_id", userID,
				"error", err,
			)
		}
	}

	logger.Debug("search_tracked",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"keywords", len(keywords),
	)
	return keywords, nil
}
