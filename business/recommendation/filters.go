package recommendation

import (
	"strings"

	"tutorMarket/domain"
)

type priceBucket struct {
	min, max float64
}

var priceBuckets = map[string]priceBucket{
	"under30": {min: 0, max: 30},
	"30to40":  {min: 30, max: 40},
	"over40":  {min: 40, max: 1000},
}

// unknown bucket names accept any realistic rate
var anyPrice = priceBucket{min: 0, max: 1000}

func priceBounds(name string) priceBucket {
	if b, ok := priceBuckets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return b
	}
	return anyPrice
}

func passesFilters(e domain.EducatorSummary, f domain.Filters) bool {
	if f.PriceRange != "" {
		b := priceBounds(f.PriceRange)
		if e.HourlyRate < b.min || e.HourlyRate > b.max {
			return false
		}
	}
	if f.MinRating != nil && e.AverageRating < *f.MinRating {
		return false
	}
	if f.MinExperience != nil && e.MaxYearsOfExperience() < *f.MinExperience {
		return false
	}
	if f.Language != "" && !hasLanguage(e.Languages, f.Language) {
		return false
	}
	return true
}

func hasLanguage(languages []string, want string) bool {
	for _, l := range languages {
		if l == want {
			return true
		}
	}
	return false
}

func applyFilters(recs []domain.ScoredCandidate, f domain.Filters) []domain.ScoredCandidate {
	if f.IsZero() {
		return recs
	}
	out := make([]domain.ScoredCandidate, 0, len(recs))
	for _, rec := range recs {
		if passesFilters(rec.Educator, f) {
			out = append(out, rec)
		}
	}
	return out
}
