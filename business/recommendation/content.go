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

const (
	topicMatchScore    = 1.0
	topicBaselineScore = 0.3
	topicNeutralScore  = 0.5
	noExpertiseScore   = 0.1
	fastResponseHours  = 12
	neutralRatingFloor = 3
	levelMatchScore    = 1.0
	levelMismatchScore = 0.7
	unknownStyleScore  = 0.6
	flexibleStyleScore = 0.9
)

// ContentBasedRecommender scores educators by how well their declared
// attributes fit the student's features.
type ContentBasedRecommender struct {
	features FeatureSource
	profiles ProfileRepository
	cfg      Config
}

var _ Recommender = (*ContentBasedRecommender)(nil)

func NewContentBasedRecommender(features FeatureSource, profiles ProfileRepository, cfg Config) *ContentBasedRecommender {
	return &ContentBasedRecommender{
		features: features,
		profiles: profiles,
		cfg:      cfg,
	}
}

func (c *ContentBasedRecommender) Name() string {
	return string(domain.RecommendationContentBased)
}

func (c *ContentBasedRecommender) Generate(ctx context.Context, studentID uint, topic string, limit int) ([]domain.ScoredCandidate, error) {
	start := time.Now()
	defer func() {
		StrategyDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = defaultLimit
	}
	topic = strings.TrimSpace(topic)

	feat, ok := c.features.ExtractFeatures(ctx, studentID)
	if !ok || !feat.HasSignal() {
		logger.Debug("content_cold_start",
			"trace_id", TraceIDFromContext(ctx),
			"student_id", studentID,
			"features_available", ok,
		)
		RecommendationFallbacksTotal.WithLabelValues("cold_start").Inc()
		return c.Fallback(ctx, topic, limit)
	}

	educators, err := c.profiles.FindEducators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load educator catalog: %w", err)
	}

	out := make([]domain.ScoredCandidate, 0, len(educators))
	for _, u := range educators {
		if len(u.TeachingProfile.Expertise) == 0 {
			continue
		}
		if topic != "" && !teachesTopic(u, topic) {
			continue
		}
		out = append(out, scoreContentCandidate(u, feat, topic, c.cfg.Content))
	}

	sortByScore(out)
	return truncate(out, limit), nil
}

// Fallback ignores the student entirely and returns well-rated educators.
// When nobody matches the topic the generic top-rated list is returned.
func (c *ContentBasedRecommender) Fallback(ctx context.Context, topic string, limit int) ([]domain.ScoredCandidate, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	educators, err := c.profiles.FindEducators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load educator catalog: %w", err)
	}

	out := fallbackCandidates(educators, strings.TrimSpace(topic), c.cfg.FallbackMinRating)
	if len(out) == 0 && topic != "" {
		out = fallbackCandidates(educators, "", c.cfg.FallbackMinRating)
	}
	return truncate(out, limit), nil
}

func fallbackCandidates(educators []domain.User, topic string, minRating float64) []domain.ScoredCandidate {
	out := []domain.ScoredCandidate{}
	for _, u := range educators {
		rating := u.TeachingProfile.Rating()
		if u.TeachingProfile.AverageRating == nil || rating < minRating {
			continue
		}
		if topic != "" && !expertiseMatches(u.TeachingProfile.Expertise, topic) {
			continue
		}
		out = append(out, domain.ScoredCandidate{
			EducatorID:         u.ID,
			Educator:           domain.NewEducatorSummary(u),
			Score:              rating,
			RecommendationType: domain.RecommendationFallback,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Educator, out[j].Educator
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.TotalSessions != b.TotalSessions {
			return a.TotalSessions > b.TotalSessions
		}
		return out[i].EducatorID < out[j].EducatorID
	})
	return out
}

// FallbackRecommender adapts the cold-start path to the Recommender
// interface.
type FallbackRecommender struct {
	content *ContentBasedRecommender
}

var _ Recommender = (*FallbackRecommender)(nil)

func NewFallbackRecommender(content *ContentBasedRecommender) *FallbackRecommender {
	return &FallbackRecommender{content: content}
}

func (f *FallbackRecommender) Name() string {
	return string(domain.RecommendationFallback)
}

func (f *FallbackRecommender) Generate(ctx context.Context, _ uint, topic string, limit int) ([]domain.ScoredCandidate, error) {
	return f.content.Fallback(ctx, topic, limit)
}

// ---- Pure scoring ----

type contentSignals struct {
	TopicRelevance float64
	Expertise      float64
	StyleMatch     float64
	LevelMatch     float64
	Availability   float64
}

func (s contentSignals) score(w ContentWeights) float64 {
	return w.TopicRelevance*s.TopicRelevance +
		w.Expertise*s.Expertise +
		w.StyleMatch*s.StyleMatch +
		w.LevelMatch*s.LevelMatch +
		w.Availability*s.Availability
}

func scoreContentCandidate(u domain.User, feat domain.FeatureRecord, topic string, w ContentWeights) domain.ScoredCandidate {
	tp := u.TeachingProfile

	targetLevel := tp.TargetLevel
	if targetLevel == "" {
		targetLevel = u.LearningPreferences.AcademicLevel
	}

	sig := contentSignals{
		TopicRelevance: topicRelevance(u, topic),
		Expertise:      expertiseScore(tp.Expertise),
		StyleMatch:     teachingStyleMatch(tp.TeachingStyle, feat.LearningStyle),
		LevelMatch:     levelCompatibility(targetLevel, feat.AcademicLevel),
		Availability:   availabilityScore(tp.ResponseTime()),
	}
	content := sig.score(w)

	return domain.ScoredCandidate{
		EducatorID: u.ID,
		Educator:   domain.NewEducatorSummary(u),
		Score:      contentFinalScore(content, tp.Rating(), tp.TotalSessions),
		ComponentScores: map[string]float64{
			"topic_relevance": sig.TopicRelevance,
			"expertise":       sig.Expertise,
			"style_match":     sig.StyleMatch,
			"level_match":     sig.LevelMatch,
			"availability":    sig.Availability,
			"content":         content,
		},
		RecommendationType: domain.RecommendationContentBased,
		TopicRelevance:     sig.TopicRelevance,
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func expertiseMatches(expertise []domain.Expertise, topic string) bool {
	for _, e := range expertise {
		if containsFold(e.Subject, topic) {
			return true
		}
	}
	return false
}

func subjectsMatch(subjects []string, topic string) bool {
	for _, s := range subjects {
		if containsFold(s, topic) {
			return true
		}
	}
	return false
}

func teachesTopic(u domain.User, topic string) bool {
	return expertiseMatches(u.TeachingProfile.Expertise, topic) ||
		subjectsMatch(u.LearningPreferences.Subjects, topic)
}

func topicRelevance(u domain.User, topic string) float64 {
	if topic == "" {
		return topicNeutralScore
	}
	if teachesTopic(u, topic) {
		return topicMatchScore
	}
	return topicBaselineScore
}

func expertiseScore(expertise []domain.Expertise) float64 {
	if len(expertise) == 0 {
		return noExpertiseScore
	}
	var sum float64
	for _, e := range expertise {
		proficiency := clamp01(e.ProficiencyLevel / 10)
		years := math.Min(float64(e.YearsOfExperience)/10, 1)
		sum += proficiency * clamp01(years)
	}
	return sum / float64(len(expertise))
}

func teachingStyleMatch(style string, learningStyle int) float64 {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "interactive":
		if learningStyle == learningStyleCodes["visual"] || learningStyle == learningStyleCodes["kinesthetic"] {
			return 1.0
		}
		return 0.7
	case "structured":
		if learningStyle == learningStyleCodes["reading"] {
			return 1.0
		}
		return 0.8
	case "flexible":
		return flexibleStyleScore
	default:
		return unknownStyleScore
	}
}

func levelCompatibility(educatorLevel string, studentLevel int) float64 {
	if strings.EqualFold(strings.TrimSpace(educatorLevel), decodeAcademicLevel(studentLevel)) {
		return levelMatchScore
	}
	return levelMismatchScore
}

func availabilityScore(responseHours float64) float64 {
	if responseHours <= fastResponseHours {
		return 1
	}
	return clamp01(1 - (responseHours-fastResponseHours)/100)
}

// contentFinalScore weights the content fit by track record. Ratings below
// the neutral floor, including no rating at all, count as the floor.
func contentFinalScore(content, rating float64, totalSessions int) float64 {
	return content * math.Max(rating, neutralRatingFloor) * math.Log(float64(totalSessions)+1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
