package recommendation

import (
	"context"
	"fmt"
	"math"
	"time"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// HybridRecommender runs the collaborative and content strategies side by
// side and blends their ranked lists.
type HybridRecommender struct {
	collaborative Recommender
	content       Recommender
	cfg           Config
}

var (
	_ Recommender        = (*HybridRecommender)(nil)
	_ degradableStrategy = (*HybridRecommender)(nil)
)

// degradableStrategy is a Recommender that can succeed with a partial result.
// A degraded list is served but never cached.
type degradableStrategy interface {
	generateDegradable(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, bool, error)
}

func NewHybridRecommender(collaborative, content Recommender, cfg Config) *HybridRecommender {
	return &HybridRecommender{
		collaborative: collaborative,
		content:       content,
		cfg:           cfg,
	}
}

func (h *HybridRecommender) Name() string {
	return string(domain.RecommendationHybrid)
}

// Generate returns the merged list without truncating it so that later
// filtering still has candidates to choose from. If the collaborative pass
// fails or has nothing to say, the content list for the requested limit is
// returned as is.
func (h *HybridRecommender) Generate(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, error) {
	recs, _, err := h.generateDegradable(ctx, studentID, topic, limit)
	return recs, err
}

// generateDegradable also reports whether the collaborative pass failed.
func (h *HybridRecommender) generateDegradable(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, bool, error) {
	start := time.Now()
	defer func() {
		StrategyDuration.WithLabelValues(h.Name()).Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = defaultLimit
	}
	oversized := oversizedLimit(limit, h.cfg.OversizeFactor)

	var (
		collabRecs, contentRecs []domain.ScoredCandidate
		collabErr, contentErr   error
	)

	// Each branch keeps its own error so one failing does not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		collabRecs, collabErr = h.collaborative.Generate(ctx, studentID, topic, oversized)
		return nil
	})
	g.Go(func() error {
		contentRecs, contentErr = h.content.Generate(ctx, studentID, topic, oversized)
		return nil
	})
	_ = g.Wait()

	tid := TraceIDFromContext(ctx)

	if contentErr != nil {
		return nil, false, fmt.Errorf("content strategy failed: %w", contentErr)
	}

	if collabErr != nil {
		logger.Warn("hybrid_collaborative_failed",
			"trace_id", tid,
			"student_id", studentID,
			"error", collabErr,
		)
		RecommendationFallbacksTotal.WithLabelValues("collaborative_failed").Inc()
		return truncate(contentRecs, limit), true, nil
	}
	if len(collabRecs) == 0 {
		return truncate(contentRecs, limit), false, nil
	}

	merged := mergeRanked(collabRecs, contentRecs, h.cfg)

	logger.Debug("hybrid_merge",
		"trace_id", tid,
		"student_id", studentID,
		"collaborative", len(collabRecs),
		"content", len(contentRecs),
		"merged", len(merged),
	)

	return merged, false, nil
}

func oversizedLimit(limit int, factor float64) int {
	if factor < 1 {
		factor = 1
	}
	return int(math.Ceil(float64(limit) * factor))
}

// positionDecay discounts by rank. It bottoms out at zero rather than going
// negative for ranks past 1/step.
func positionDecay(rank int, step float64) float64 {
	return math.Max(0, 1-float64(rank)*step)
}

const (
	collaborativeComponent = "collaborative"
	contentComponent       = "content"
)

// mergeRanked combines two ranked lists. Each entry contributes
// weight × score × decay(rank); an educator present in only one list keeps
// only that list's contribution.
func mergeRanked(collab, content []domain.ScoredCandidate, cfg Config) []domain.ScoredCandidate {
	type merged struct {
		rec   domain.ScoredCandidate
		parts map[string]float64
	}

	order := []uint{}
	byID := map[uint]*merged{}

	add := func(list []domain.ScoredCandidate, weight float64, component string) {
		for i, rec := range list {
			contribution := weight * rec.Score * positionDecay(i, cfg.PositionDecay)

			m, ok := byID[rec.EducatorID]
			if !ok {
				m = &merged{rec: derive(rec), parts: map[string]float64{}}
				byID[rec.EducatorID] = m
				order = append(order, rec.EducatorID)
			} else {
				if rec.TopicRelevance > m.rec.TopicRelevance {
					m.rec.TopicRelevance = rec.TopicRelevance
				}
				if len(m.rec.Topics) == 0 {
					m.rec.Topics = append([]string(nil), rec.Topics...)
				}
			}
			m.parts[component] += contribution
		}
	}

	add(collab, cfg.CollaborativeWeight, collaborativeComponent)
	add(content, cfg.ContentWeight, contentComponent)

	out := make([]domain.ScoredCandidate, 0, len(order))
	for _, id := range order {
		m := byID[id]
		rec := m.rec
		rec.Score = m.parts[collaborativeComponent] + m.parts[contentComponent]
		rec.ComponentScores = m.parts
		rec.RecommendationType = domain.RecommendationHybrid
		out = append(out, rec)
	}

	sortByScore(out)
	return out
}
