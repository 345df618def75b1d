package recommendation

import (
	"testing"

	"tutorMarket/domain"

	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		name  string
		c     domain.ScoredCandidate
		topic string
		want  string
	}{
		{
			name: "every reason",
			c: domain.ScoredCandidate{
				RecommendationType: domain.RecommendationContentBased,
				TopicRelevance:     1,
				Educator: domain.EducatorSummary{
					AverageRating:     4.84,
					ResponseTimeHours: 2,
					Expertise:         []domain.Expertise{{YearsOfExperience: 3}, {YearsOfExperience: 8}},
				},
			},
			topic: "Physics",
			want:  "Specializes in Physics | Highly rated (4.8⭐) | 8 years of experience | Matches your learning preferences | Quick response time",
		},
		{
			name: "collaborative provenance",
			c: domain.ScoredCandidate{
				RecommendationType: domain.RecommendationCollaborative,
				Educator:           domain.EducatorSummary{AverageRating: 4.5, ResponseTimeHours: 24},
			},
			want: "Highly rated (4.5⭐) | Recommended by similar students",
		},
		{
			name: "hybrid provenance",
			c: domain.ScoredCandidate{
				RecommendationType: domain.RecommendationHybrid,
				TopicRelevance:     0.5,
				Educator:           domain.EducatorSummary{AverageRating: 4.2, ResponseTimeHours: 24},
			},
			topic: "chemistry",
			want:  "AI-optimized match",
		},
		{
			name: "nothing specific",
			c: domain.ScoredCandidate{
				RecommendationType: domain.RecommendationFallback,
				Educator: domain.EducatorSummary{
					AverageRating:     4.1,
					ResponseTimeHours: 24,
					Expertise:         []domain.Expertise{{YearsOfExperience: 5}},
				},
			},
			want: "Good match for your needs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, explain(tt.c, tt.topic))
		})
	}
}
