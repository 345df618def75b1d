package domain

import "time"

type RecommendationType string

const (
	RecommendationCollaborative RecommendationType = "collaborative"
	RecommendationContentBased  RecommendationType = "content-based"
	RecommendationHybrid        RecommendationType = "hybrid"
	RecommendationFallback      RecommendationType = "fallback"
)

// EducatorSummary is the slice of an educator profile shown next to a
// recommendation.
type EducatorSummary struct {
	ID                uint        `json:"id"`
	Username          string      `json:"username"`
	Img               string      `json:"img,omitempty"`
	Country           string      `json:"country,omitempty"`
	Subjects          []string    `json:"subjects,omitempty"`
	Languages         []string    `json:"languages,omitempty"`
	TeachingStyle     string      `json:"teaching_style,omitempty"`
	TargetLevel       string      `json:"target_level,omitempty"`
	HourlyRate        float64     `json:"hourly_rate"`
	AverageRating     float64     `json:"average_rating"`
	TotalSessions     int         `json:"total_sessions"`
	ResponseTimeHours float64     `json:"response_time_hours"`
	Expertise         []Expertise `json:"expertise,omitempty"`
}

func NewEducatorSummary(u User) EducatorSummary {
	tp := u.TeachingProfile
	return EducatorSummary{
		ID:                u.ID,
		Username:          u.Username,
		Img:               u.Img,
		Country:           u.Country,
		Subjects:          append([]string(nil), u.LearningPreferences.Subjects...),
		Languages:         append([]string(nil), u.LearningPreferences.Languages...),
		TeachingStyle:     tp.TeachingStyle,
		TargetLevel:       tp.TargetLevel,
		HourlyRate:        tp.HourlyRate,
		AverageRating:     tp.Rating(),
		TotalSessions:     tp.TotalSessions,
		ResponseTimeHours: tp.ResponseTime(),
		Expertise:         append([]Expertise(nil), tp.Expertise...),
	}
}

func (s EducatorSummary) MaxYearsOfExperience() int {
	max := 0
	for _, e := range s.Expertise {
		if e.YearsOfExperience > max {
			max = e.YearsOfExperience
		}
	}
	return max
}

type Availability struct {
	Status            string     `json:"status"` // "online", "offline" or "unknown"
	IsOnline          bool       `json:"is_online"`
	NextAvailable     *time.Time `json:"next_available,omitempty"`
	ResponseTimeHours float64    `json:"response_time_hours"`
}

// ScoredCandidate is one recommended educator. Pipeline stages derive new
// values instead of editing one in place.
type ScoredCandidate struct {
	EducatorID         uint               `json:"educator_id"`
	Educator           EducatorSummary    `json:"educator"`
	Score              float64            `json:"score"`
	ComponentScores    map[string]float64 `json:"component_scores,omitempty"`
	RecommendationType RecommendationType `json:"recommendation_type"`
	TopicRelevance     float64            `json:"topic_relevance,omitempty"`
	Topics             []string           `json:"topics,omitempty"`
	SessionCount       int                `json:"session_count,omitempty"`
	Explanation        string             `json:"explanation,omitempty"`
	Availability       *Availability      `json:"availability,omitempty"`
}

// Filters are optional constraints applied after strategies are merged.
type Filters struct {
	PriceRange    string   `json:"price_range,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	MinExperience *int     `json:"min_experience,omitempty"`
	Language      string   `json:"language,omitempty"`
}

func (f Filters) IsZero() bool {
	return f.PriceRange == "" && f.MinRating == nil && f.MinExperience == nil && f.Language == ""
}

type TopicWeight struct {
	Topic  string  `json:"topic"`
	Weight float64 `json:"weight"`
}

type FeatureRecord struct {
	UserID                     uint          `json:"user_id"`
	IsEducator                 bool          `json:"is_educator"`
	AcademicLevel              int           `json:"academic_level"`
	LearningStyle              int           `json:"learning_style"`
	TotalSessions              int           `json:"total_sessions"`
	AverageRating              float64       `json:"average_rating"`
	TopicPreferences           []TopicWeight `json:"topic_preferences"`
	TimePreferences            []string      `json:"time_preferences"`
	AverageEngagement          float64       `json:"average_engagement"`
	InteractionFrequencyPerDay float64       `json:"interaction_frequency_per_day"`
	HasDeclaredPreferences     bool          `json:"has_declared_preferences"`
	NumericFeatureVector       []float64     `json:"numeric_feature_vector"`
}

// HasSignal reports whether anything is known about the user beyond the
// bare account.
func (f FeatureRecord) HasSignal() bool {
	return f.TotalSessions > 0 || len(f.TopicPreferences) > 0 || f.HasDeclaredPreferences
}

type SimilarityEntry struct {
	StudentID  uint    `json:"student_id"`
	Similarity float64 `json:"similarity"`
}

type TargetCount struct {
	TargetID uint `json:"target_id"`
	Count    int  `json:"count"`
}

// RecommendationMetrics summarises how one student used the lists they were
// served. Effectiveness is bookings per hundred views.
type RecommendationMetrics struct {
	StudentID                       uint           `json:"student_id"`
	TotalRecommendationInteractions int            `json:"total_recommendation_interactions"`
	TotalRecommendationRequests     int            `json:"total_recommendation_requests"`
	InteractionTypes                map[string]int `json:"interaction_types"`
	TopTargets                      []TargetCount  `json:"top_targets"`
	Effectiveness                   float64        `json:"recommendation_effectiveness"`
}
