package recommendation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tutorMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(id uint, score float64, typ domain.RecommendationType) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		EducatorID:         id,
		Educator:           domain.EducatorSummary{ID: id},
		Score:              score,
		RecommendationType: typ,
	}
}

func TestPositionDecay(t *testing.T) {
	assert.Equal(t, 1.0, positionDecay(0, 0.1))
	assert.InDelta(t, 0.5, positionDecay(5, 0.1), 1e-9)
	assert.InDelta(t, 0.1, positionDecay(9, 0.1), 1e-9)
	assert.Equal(t, 0.0, positionDecay(10, 0.1))
	assert.Equal(t, 0.0, positionDecay(14, 0.1))
}

func TestOversizedLimit(t *testing.T) {
	assert.Equal(t, 15, oversizedLimit(10, 1.5))
	assert.Equal(t, 5, oversizedLimit(3, 1.5))
	assert.Equal(t, 3, oversizedLimit(3, 0.5))
}

func TestMergeRankedContentOnlyContribution(t *testing.T) {
	collab := []domain.ScoredCandidate{cand(1, 10, domain.RecommendationCollaborative)}
	content := []domain.ScoredCandidate{
		cand(2, 2.5, domain.RecommendationContentBased),
		cand(1, 4, domain.RecommendationContentBased),
	}

	merged := mergeRanked(collab, content, DefaultConfig())
	require.Len(t, merged, 2)

	byID := map[uint]domain.ScoredCandidate{}
	for _, m := range merged {
		byID[m.EducatorID] = m
		assert.Equal(t, domain.RecommendationHybrid, m.RecommendationType)
	}

	assert.InDelta(t, 0.4*2.5, byID[2].Score, 1e-12)
	assert.Zero(t, byID[2].ComponentScores[collaborativeComponent])

	// 0.6×10×1 + 0.4×4×0.9
	assert.InDelta(t, 6+1.44, byID[1].Score, 1e-12)
	assert.Equal(t, uint(1), merged[0].EducatorID)
}

func TestMergeRankedDoesNotTouchInputs(t *testing.T) {
	collab := []domain.ScoredCandidate{cand(1, 3, domain.RecommendationCollaborative)}
	collab[0].ComponentScores = map[string]float64{"avg_rating": 4}

	_ = mergeRanked(collab, nil, DefaultConfig())

	assert.Equal(t, 3.0, collab[0].Score)
	assert.Equal(t, domain.RecommendationCollaborative, collab[0].RecommendationType)
	assert.Equal(t, map[string]float64{"avg_rating": 4}, collab[0].ComponentScores)
}

func TestHybridCollaborativeFailureUsesContent(t *testing.T) {
	content := &staticRecommender{name: "content-based", recs: []domain.ScoredCandidate{
		cand(3, 9, domain.RecommendationContentBased),
		cand(4, 8, domain.RecommendationContentBased),
		cand(5, 7, domain.RecommendationContentBased),
	}}
	collab := &staticRecommender{name: "collaborative", err: errors.New("boom")}

	h := NewHybridRecommender(collab, content, DefaultConfig())
	recs, err := h.Generate(context.Background(), 1, "", 2)
	require.NoError(t, err)

	direct, err := content.Generate(context.Background(), 1, "", 2)
	require.NoError(t, err)
	assert.Equal(t, direct, recs)

	_, degraded, err := h.generateDegradable(context.Background(), 1, "", 2)
	require.NoError(t, err)
	assert.True(t, degraded)

	collab.err = nil
	_, degraded, err = h.generateDegradable(context.Background(), 1, "", 2)
	require.NoError(t, err)
	assert.False(t, degraded)
}

func TestHybridEmptyCollaborativeKeepsContentTags(t *testing.T) {
	content := &staticRecommender{name: "content-based", recs: []domain.ScoredCandidate{
		cand(3, 4.8, domain.RecommendationFallback),
	}}
	collab := &staticRecommender{name: "collaborative"}

	recs, err := NewHybridRecommender(collab, content, DefaultConfig()).Generate(context.Background(), 1, "", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.RecommendationFallback, recs[0].RecommendationType)
}

func TestHybridContentFailureIsAnError(t *testing.T) {
	collab := &staticRecommender{name: "collaborative", recs: []domain.ScoredCandidate{cand(1, 1, domain.RecommendationCollaborative)}}
	content := &staticRecommender{name: "content-based", err: errors.New("catalog offline")}

	_, err := NewHybridRecommender(collab, content, DefaultConfig()).Generate(context.Background(), 1, "", 5)
	assert.Error(t, err)
}

// barrierRecommender only returns once its sibling has also started.
type barrierRecommender struct {
	name    string
	started *sync.WaitGroup
	recs    []domain.ScoredCandidate
}

func (b *barrierRecommender) Name() string { return b.name }

func (b *barrierRecommender) Generate(ctx context.Context, _ uint, _ string, _ int) ([]domain.ScoredCandidate, error) {
	b.started.Done()
	done := make(chan struct{})
	go func() {
		b.started.Wait()
		close(done)
	}()
	select {
	case <-done:
		return b.recs, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("sibling strategy never started")
	}
}

func TestHybridRunsStrategiesConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)

	collab := &barrierRecommender{name: "collaborative", started: &started, recs: []domain.ScoredCandidate{cand(1, 5, domain.RecommendationCollaborative)}}
	content := &barrierRecommender{name: "content-based", started: &started, recs: []domain.ScoredCandidate{cand(2, 5, domain.RecommendationContentBased)}}

	recs, err := NewHybridRecommender(collab, content, DefaultConfig()).Generate(context.Background(), 1, "", 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, educatorIDs(recs))
}

func TestHybridAsksForOversizedLists(t *testing.T) {
	var seen []int
	var mu sync.Mutex
	rec := func(name string) Recommender {
		return recorderRecommender{name: name, record: func(limit int) {
			mu.Lock()
			seen = append(seen, limit)
			mu.Unlock()
		}}
	}

	_, err := NewHybridRecommender(rec("collaborative"), rec("content-based"), DefaultConfig()).Generate(context.Background(), 1, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{15, 15}, seen)
}

type recorderRecommender struct {
	name   string
	record func(limit int)
}

func (r recorderRecommender) Name() string { return r.name }

func (r recorderRecommender) Generate(_ context.Context, _ uint, _ string, limit int) ([]domain.ScoredCandidate, error) {
	r.record(limit)
	return nil, nil
}
