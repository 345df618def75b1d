package recommendation

import (
	"context"
	"errors"
	"testing"

	"tutorMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommended(userID, target uint, kind string) domain.Interaction {
	return domain.Interaction{
		UserID:          userID,
		TargetID:        ptr(target),
		InteractionType: kind,
		Source:          domain.SourceRecommendation,
		IsRecommended:   true,
		CreatedAt:       baseTime,
	}
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, coldStartUsers(), nil)
	h.interactions.items = []domain.Interaction{
		recommended(1, 10, domain.InteractionView),
		recommended(1, 10, domain.InteractionView),
		recommended(1, 10, domain.InteractionBook),
		recommended(1, 11, domain.InteractionView),
		recommended(1, 12, domain.InteractionClick),
		recommended(1, 13, domain.InteractionView),
		recommended(1, 14, domain.InteractionView),
		recommended(1, 15, domain.InteractionBookmark),
		recommended(2, 10, domain.InteractionBook),
		{UserID: 1, TargetID: ptr(uint(16)), InteractionType: domain.InteractionBook, CreatedAt: baseTime},
		{UserID: 1, InteractionType: domain.InteractionView, Source: domain.SourceRequestLog, IsRecommended: true, CreatedAt: baseTime},
	}

	m, err := h.o.Metrics(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), m.StudentID)
	assert.Equal(t, 8, m.TotalRecommendationInteractions)
	assert.Equal(t, 1, m.TotalRecommendationRequests)
	assert.Equal(t, map[string]int{
		domain.InteractionView:     5,
		domain.InteractionBook:     1,
		domain.InteractionClick:    1,
		domain.InteractionBookmark: 1,
	}, m.InteractionTypes)
	assert.Equal(t, []domain.TargetCount{
		{TargetID: 10, Count: 3},
		{TargetID: 11, Count: 1},
		{TargetID: 12, Count: 1},
		{TargetID: 13, Count: 1},
		{TargetID: 14, Count: 1},
	}, m.TopTargets)
	assert.InDelta(t, 20.0, m.Effectiveness, 1e-9)
}

func TestMetricsWithoutViews(t *testing.T) {
	h := newHarness(t, coldStartUsers(), nil)
	h.interactions.items = []domain.Interaction{recommended(1, 10, domain.InteractionBook)}

	m, err := h.o.Metrics(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, m.Effectiveness)
	assert.Equal(t, 1, m.InteractionTypes[domain.InteractionBook])

	empty, err := h.o.Metrics(context.Background(), 99)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalRecommendationInteractions)
	assert.Empty(t, empty.TopTargets)
}

func TestMetricsStoreFailure(t *testing.T) {
	h := newHarness(t, coldStartUsers(), nil)
	h.interactions.findErr = errors.New("down")

	_, err := h.o.Metrics(context.Background(), 1)
	assert.Error(t, err)
}

func TestTrackSearch(t *testing.T) {
	h := newHarness(t, coldStartUsers(), nil)
	ctx := context.Background()

	keywords, err := h.o.TrackSearch(ctx, 1, "  the best Organic Chemistry tutor  ", map[string]any{"language": "english"})
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "organic", "chemistry", "tutor"}, keywords)
	assert.Equal(t, []uint{1}, h.cache.invalidated)

	require.Equal(t, 1, h.interactions.count())
	got := h.interactions.items[0]
	assert.Equal(t, domain.SourceSearch, got.Source)
	assert.Equal(t, domain.InteractionView, got.InteractionType)
	assert.Equal(t, "the best Organic Chemistry tutor", got.SearchQuery)
	assert.False(t, got.IsRecommended)
	assert.Equal(t, keywords, got.Filters["keywords"])

	feat, err := h.o.Features(ctx, 1)
	require.NoError(t, err)
	assert.True(t, feat.HasSignal())
}

func TestTrackSearchValidation(t *testing.T) {
	h := newHarness(t, coldStartUsers(), nil)
	ctx := context.Background()

	_, err := h.o.TrackSearch(ctx, 1, "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidInteraction)

	_, err = h.o.TrackSearch(ctx, 0, "physics", nil)
	assert.ErrorIs(t, err, ErrInvalidInteraction)

	h.interactions.appendErr = errors.New("insert failed")
	_, err = h.o.TrackSearch(ctx, 1, "physics", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInteraction)
	assert.Zero(t, h.interactions.count())
}
