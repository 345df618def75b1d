package recommendation

import (
	"fmt"
	"strings"

	"tutorMarket/domain"
)

const (
	explanationSeparator    = " | "
	genericExplanation      = "Good match for your needs"
	specializationRelevance = 0.8
	highlyRatedThreshold    = 4.5
	experiencedYears        = 5
	quickResponseHours      = 4
)

var provenanceReasons = map[domain.RecommendationType]string{
	domain.RecommendationCollaborative: "Recommended by similar students",
	domain.RecommendationContentBased:  "Matches your learning preferences",
	domain.RecommendationHybrid:        "AI-optimized match",
}

func explain(c domain.ScoredCandidate, topic string) string {
	e := c.Educator
	reasons := make([]string, 0, 5)

	if topic != "" && c.TopicRelevance > specializationRelevance {
		reasons = append(reasons, "Specializes in "+topic)
	}
	if e.AverageRating >= highlyRatedThreshold {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f⭐)", e.AverageRating))
	}
	if years := e.MaxYearsOfExperience(); years > experiencedYears {
		reasons = append(reasons, fmt.Sprintf("%d years of experience", years))
	}
	if reason, ok := provenanceReasons[c.RecommendationType]; ok {
		reasons = append(reasons, reason)
	}
	if e.ResponseTimeHours <= quickResponseHours {
		reasons = append(reasons, "Quick response time")
	}

	if len(reasons) == 0 {
		return genericExplanation
	}
	return strings.Join(reasons, explanationSeparator)
}
