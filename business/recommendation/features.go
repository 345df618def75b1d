package recommendation

import (
	"context"
	"sort"
	"strings"
	"time"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"
)

const (
	maxTopicPreferences    = 10
	sessionTopicWeight     = 1.0
	searchQueryTopicWeight = 0.5
	frequencyWindowDays    = 30
)

var academicLevelCodes = map[string]int{
	"highschool":   1,
	"university":   2,
	"postgraduate": 3,
}

var learningStyleCodes = map[string]int{
	"visual":      1,
	"auditory":    2,
	"kinesthetic": 3,
	"reading":     4,
}

const (
	defaultAcademicLevel = 2
	defaultLearningStyle = 1
)

// FeatureExtractor turns a user's raw history into a FeatureRecord.
type FeatureExtractor struct {
	profiles     ProfileRepository
	sessions     SessionRepository
	interactions InteractionRepository
	cfg          Config
	now          func() time.Time
}

var _ FeatureSource = (*FeatureExtractor)(nil)

func NewFeatureExtractor(
	profiles ProfileRepository,
	sessions SessionRepository,
	interactions InteractionRepository,
	cfg Config,
) *FeatureExtractor {
	return &FeatureExtractor{
		profiles:     profiles,
		sessions:     sessions,
		interactions: interactions,
		cfg:          cfg,
		now:          time.Now,
	}
}

// ExtractFeatures returns ok=false when any part of the user's data cannot be
// read. Callers treat that as a cold start.
func (f *FeatureExtractor) ExtractFeatures(ctx context.Context, userID uint) (domain.FeatureRecord, bool) {
	tid := TraceIDFromContext(ctx)

	user, err := f.profiles.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("features_user_unavailable", "trace_id", tid, "user_id", userID, "error", err)
		return domain.FeatureRecord{}, false
	}

	sessions, err := f.sessions.FindSessions(ctx, domain.SessionFilter{
		ParticipantID: userID,
		Limit:         f.cfg.SessionHistoryCap,
	})
	if err != nil {
		logger.Warn("features_sessions_unavailable", "trace_id", tid, "user_id", userID, "error", err)
		return domain.FeatureRecord{}, false
	}

	interactions, err := f.interactions.FindInteractions(ctx, domain.InteractionFilter{
		UserID:        userID,
		ExcludeSource: domain.SourceRequestLog,
		Limit:         f.cfg.InteractionCap,
	})
	if err != nil {
		logger.Warn("features_interactions_unavailable", "trace_id", tid, "user_id", userID, "error", err)
		return domain.FeatureRecord{}, false
	}

	return buildFeatureRecord(user, sessions, interactions, f.now()), true
}

func buildFeatureRecord(
	user domain.User,
	sessions []domain.SessionHistory,
	interactions []domain.Interaction,
	now time.Time,
) domain.FeatureRecord {
	prefs := user.LearningPreferences

	rec := domain.FeatureRecord{
		UserID:                     user.ID,
		IsEducator:                 user.IsEducator,
		AcademicLevel:              encodeAcademicLevel(prefs.AcademicLevel),
		LearningStyle:              encodeLearningStyle(prefs.LearningStyle),
		TotalSessions:              len(sessions),
		AverageRating:              averageReceivedRating(user.ID, sessions),
		TopicPreferences:           topicPreferences(sessions, interactions),
		TimePreferences:            timePreferences(sessions),
		AverageEngagement:          averageEngagement(sessions),
		InteractionFrequencyPerDay: interactionFrequency(interactions, now),
		HasDeclaredPreferences: strings.TrimSpace(prefs.AcademicLevel) != "" ||
			strings.TrimSpace(prefs.LearningStyle) != "" ||
			len(prefs.Subjects) > 0,
	}
	rec.NumericFeatureVector = featureVector(rec, user)
	return rec
}

func encodeAcademicLevel(level string) int {
	if code, ok := academicLevelCodes[strings.ToLower(strings.TrimSpace(level))]; ok {
		return code
	}
	return defaultAcademicLevel
}

func decodeAcademicLevel(code int) string {
	for name, c := range academicLevelCodes {
		if c == code {
			return name
		}
	}
	return "university"
}

func encodeLearningStyle(style string) int {
	if code, ok := learningStyleCodes[strings.ToLower(strings.TrimSpace(style))]; ok {
		return code
	}
	return defaultLearningStyle
}

// averageReceivedRating averages the rating the other party gave the user.
func averageReceivedRating(userID uint, sessions []domain.SessionHistory) float64 {
	var sum float64
	var n int
	for _, s := range sessions {
		rating := s.StudentRating
		if s.StudentID == userID {
			rating = s.EducatorRating
		}
		if rating == nil {
			continue
		}
		sum += *rating
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type weightedTopic struct {
	weight   float64
	lastSeen time.Time
}

func topicPreferences(sessions []domain.SessionHistory, interactions []domain.Interaction) []domain.TopicWeight {
	acc := map[string]*weightedTopic{}
	add := func(raw string, w float64, at time.Time) {
		topic := strings.ToLower(strings.TrimSpace(raw))
		if topic == "" {
			return
		}
		t, ok := acc[topic]
		if !ok {
			t = &weightedTopic{}
			acc[topic] = t
		}
		t.weight += w
		if at.After(t.lastSeen) {
			t.lastSeen = at
		}
	}

	for _, s := range sessions {
		add(s.Topic, sessionTopicWeight, s.CreatedAt)
	}
	for _, in := range interactions {
		switch {
		case in.IsRequestLog():
		case in.Source == domain.SourceSearch:
			for _, kw := range ExtractKeywords(in.SearchQuery) {
				add(kw, searchQueryTopicWeight, in.CreatedAt)
			}
		default:
			add(in.SearchQuery, searchQueryTopicWeight, in.CreatedAt)
		}
	}

	topics := make([]string, 0, len(acc))
	for topic := range acc {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		a, b := acc[topics[i]], acc[topics[j]]
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if !a.lastSeen.Equal(b.lastSeen) {
			return a.lastSeen.After(b.lastSeen)
		}
		return topics[i] < topics[j]
	})
	if len(topics) > maxTopicPreferences {
		topics = topics[:maxTopicPreferences]
	}

	out := make([]domain.TopicWeight, 0, len(topics))
	for _, topic := range topics {
		out = append(out, domain.TopicWeight{Topic: topic, Weight: acc[topic].weight})
	}
	return out
}

func timeSlot(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}

func timePreferences(sessions []domain.SessionHistory) []string {
	type slotStat struct {
		count    int
		lastSeen time.Time
	}
	stats := map[string]*slotStat{}
	for _, s := range sessions {
		if s.ScheduledDate.IsZero() {
			continue
		}
		slot := timeSlot(s.ScheduledDate)
		st, ok := stats[slot]
		if !ok {
			st = &slotStat{}
			stats[slot] = st
		}
		st.count++
		if s.ScheduledDate.After(st.lastSeen) {
			st.lastSeen = s.ScheduledDate
		}
	}

	slots := make([]string, 0, len(stats))
	for slot := range stats {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		a, b := stats[slots[i]], stats[slots[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		if !a.lastSeen.Equal(b.lastSeen) {
			return a.lastSeen.After(b.lastSeen)
		}
		return slots[i] < slots[j]
	})
	return slots
}

func averageEngagement(sessions []domain.SessionHistory) float64 {
	var sum float64
	var n int
	for _, s := range sessions {
		if s.CompletionRate == nil {
			continue
		}
		sum += *s.CompletionRate
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func interactionFrequency(interactions []domain.Interaction, now time.Time) float64 {
	since := now.AddDate(0, 0, -frequencyWindowDays)
	n := 0
	for _, in := range interactions {
		if !in.IsRequestLog() && !in.CreatedAt.Before(since) {
			n++
		}
	}
	return float64(n) / frequencyWindowDays
}

func featureVector(rec domain.FeatureRecord, user domain.User) []float64 {
	isEducator := 0.0
	var teachRating, teachSessions, teachResponse float64
	if user.IsEducator {
		isEducator = 1
		tp := user.TeachingProfile
		teachRating = tp.Rating()
		teachSessions = float64(tp.TotalSessions)
		teachResponse = tp.ResponseTime()
	}

	return []float64{
		isEducator,
		float64(rec.AcademicLevel),
		float64(rec.LearningStyle),
		float64(rec.TotalSessions),
		rec.AverageRating,
		rec.AverageEngagement,
		rec.InteractionFrequencyPerDay,
		teachRating,
		teachSessions,
		teachResponse,
	}
}
