package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"
)

// CollaborativeRecommender surfaces educators that students with a similar
// rating pattern rated highly.
type CollaborativeRecommender struct {
	sessions SessionRepository
	profiles ProfileRepository
	cfg      Config
}

var _ Recommender = (*CollaborativeRecommender)(nil)

func NewCollaborativeRecommender(sessions SessionRepository, profiles ProfileRepository, cfg Config) *CollaborativeRecommender {
	return &CollaborativeRecommender{
		sessions: sessions,
		profiles: profiles,
		cfg:      cfg,
	}
}

func (c *CollaborativeRecommender) Name() string {
	return string(domain.RecommendationCollaborative)
}

func (c *CollaborativeRecommender) Generate(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, error) {
	start := time.Now()
	defer func() {
		StrategyDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	}()

	similar, err := c.FindSimilarStudents(ctx, studentID)
	if err != nil {
		return nil, err
	}

	logger.Debug("collaborative_similar_students",
		"trace_id", TraceIDFromContext(ctx),
		"student_id", studentID,
		"similar", len(similar),
	)

	return c.EducatorsFromSimilarStudents(ctx, similar, topic, limit)
}

// FindSimilarStudents ranks other students by Pearson correlation over the
// educators both they and the target rated.
func (c *CollaborativeRecommender) FindSimilarStudents(ctx context.Context, studentID uint) ([]domain.SimilarityEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	own, err := c.sessions.FindSessions(ctx, domain.SessionFilter{
		StudentIDs: []uint{studentID},
		Status:     domain.SessionStatusCompleted,
		RatedOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load student ratings: %w", err)
	}

	target := ratingsByEducator(own)
	if len(target) == 0 {
		return nil, nil
	}

	educatorIDs := make([]uint, 0, len(target))
	for id := range target {
		educatorIDs = append(educatorIDs, id)
	}
	sort.Slice(educatorIDs, func(i, j int) bool { return educatorIDs[i] < educatorIDs[j] })

	peers, err := c.sessions.FindSessions(ctx, domain.SessionFilter{
		EducatorIDs:      educatorIDs,
		ExcludeStudentID: studentID,
		Status:           domain.SessionStatusCompleted,
		RatedOnly:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load peer ratings: %w", err)
	}

	byStudent := map[uint][]domain.SessionHistory{}
	for _, s := range peers {
		if s.StudentID == studentID {
			continue
		}
		byStudent[s.StudentID] = append(byStudent[s.StudentID], s)
	}

	others := make(map[uint]map[uint]float64, len(byStudent))
	for id, sessions := range byStudent {
		others[id] = ratingsByEducator(sessions)
	}

	return rankSimilarStudents(target, others, c.cfg), nil
}

// EducatorsFromSimilarStudents scores educators the similar students rated
// at or above the high-rating threshold.
func (c *CollaborativeRecommender) EducatorsFromSimilarStudents(
	ctx context.Context,
	similar []domain.SimilarityEntry,
	topic string,
	limit int,
) ([]domain.ScoredCandidate, error) {
	if len(similar) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	studentIDs := make([]uint, 0, len(similar))
	for _, s := range similar {
		studentIDs = append(studentIDs, s.StudentID)
	}

	sessions, err := c.sessions.FindSessions(ctx, domain.SessionFilter{
		StudentIDs:       studentIDs,
		Status:           domain.SessionStatusCompleted,
		RatedOnly:        true,
		MinStudentRating: c.cfg.HighRatingThreshold,
		TopicContains:    strings.TrimSpace(topic),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load similar students' sessions: %w", err)
	}

	stats := aggregateEducatorStats(sessions)
	if len(stats) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.educatorID)
	}
	users, err := c.profiles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load educator profiles: %w", err)
	}
	profiles := make(map[uint]domain.User, len(users))
	for _, u := range users {
		profiles[u.ID] = u
	}

	out := make([]domain.ScoredCandidate, 0, len(stats))
	for _, st := range stats {
		u, ok := profiles[st.educatorID]
		if !ok {
			continue
		}
		out = append(out, domain.ScoredCandidate{
			EducatorID: st.educatorID,
			Educator:   domain.NewEducatorSummary(u),
			Score:      collaborativeScore(st.avgRating, st.sessionCount, st.avgEngagement),
			ComponentScores: map[string]float64{
				"avg_rating":     st.avgRating,
				"session_count":  float64(st.sessionCount),
				"avg_engagement": st.avgEngagement,
			},
			RecommendationType: domain.RecommendationCollaborative,
			Topics:             st.topics,
			SessionCount:       st.sessionCount,
		})
	}

	sortByScore(out)
	return truncate(out, limit), nil
}

// ratingsByEducator keeps the most recent rating per educator. Sessions
// arrive most recent first.
func ratingsByEducator(sessions []domain.SessionHistory) map[uint]float64 {
	out := map[uint]float64{}
	for _, s := range sessions {
		if s.StudentRating == nil {
			continue
		}
		if _, seen := out[s.EducatorID]; seen {
			continue
		}
		out[s.EducatorID] = *s.StudentRating
	}
	return out
}

// pearsonCorrelation over the educators both maps rated. Fewer than
// minShared common educators or a zero denominator yields 0.
func pearsonCorrelation(target, other map[uint]float64, minShared int) float64 {
	shared := make([]uint, 0, len(target))
	for id := range target {
		if _, ok := other[id]; ok {
			shared = append(shared, id)
		}
	}
	if len(shared) < minShared || len(shared) == 0 {
		return 0
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, id := range shared {
		x, y := target[id], other[id]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}

	n := float64(len(shared))
	num := n*sumXY - sumX*sumY
	den := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

func rankSimilarStudents(target map[uint]float64, others map[uint]map[uint]float64, cfg Config) []domain.SimilarityEntry {
	out := make([]domain.SimilarityEntry, 0, len(others))
	for id, ratings := range others {
		r := pearsonCorrelation(target, ratings, cfg.MinSharedEducators)
		if r <= cfg.SimilarityThreshold {
			continue
		}
		out = append(out, domain.SimilarityEntry{StudentID: id, Similarity: r})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].StudentID < out[j].StudentID
	})

	if cfg.MaxSimilarStudents > 0 && len(out) > cfg.MaxSimilarStudents {
		out = out[:cfg.MaxSimilarStudents]
	}
	return out
}

type educatorStats struct {
	educatorID    uint
	avgRating     float64
	sessionCount  int
	avgEngagement float64
	topics        []string
}

// aggregateEducatorStats groups sessions per educator, preserving the order
// in which educators first appear.
func aggregateEducatorStats(sessions []domain.SessionHistory) []educatorStats {
	type acc struct {
		ratingSum, engagementSum float64
		rated, engaged           int
		topics                   []string
		seenTopics               map[string]bool
	}

	order := []uint{}
	byEducator := map[uint]*acc{}
	for _, s := range sessions {
		if s.StudentRating == nil {
			continue
		}
		a, ok := byEducator[s.EducatorID]
		if !ok {
			a = &acc{seenTopics: map[string]bool{}}
			byEducator[s.EducatorID] = a
			order = append(order, s.EducatorID)
		}
		a.ratingSum += *s.StudentRating
		a.rated++
		if s.CompletionRate != nil {
			a.engagementSum += *s.CompletionRate
			a.engaged++
		}
		if s.Topic != "" && !a.seenTopics[s.Topic] {
			a.seenTopics[s.Topic] = true
			a.topics = append(a.topics, s.Topic)
		}
	}

	out := make([]educatorStats, 0, len(order))
	for _, id := range order {
		a := byEducator[id]
		st := educatorStats{
			educatorID:   id,
			avgRating:    a.ratingSum / float64(a.rated),
			sessionCount: a.rated,
			topics:       a.topics,
		}
		if a.engaged > 0 {
			st.avgEngagement = a.engagementSum / float64(a.engaged)
		}
		out = append(out, st)
	}
	return out
}

// collaborativeScore = avgRating × ln(n+1) × engagement/100.
func collaborativeScore(avgRating float64, sessionCount int, avgEngagement float64) float64 {
	return avgRating * math.Log(float64(sessionCount)+1) * (avgEngagement / 100)
}
