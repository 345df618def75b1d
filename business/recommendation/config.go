package recommendation

// Config holds the tunables of the recommendation pipeline. Rows in
// recommender_config override the merge and similarity fields per request.
type Config struct {
	// hybrid merge
	CollaborativeWeight float64
	ContentWeight       float64
	PositionDecay       float64
	OversizeFactor      float64

	// collaborative filtering
	SimilarityThreshold float64
	MaxSimilarStudents  int
	MinSharedEducators  int
	HighRatingThreshold float64

	// content-based filtering
	Content           ContentWeights
	FallbackMinRating float64

	// feature extraction caps
	SessionHistoryCap int
	InteractionCap    int

	ConfigName string
}

type ContentWeights struct {
	TopicRelevance float64
	Expertise      float64
	StyleMatch     float64
	LevelMatch     float64
	Availability   float64
}

const (
	defaultCollaborativeWeight = 0.6
	defaultContentWeight       = 0.4
	defaultPositionDecay       = 0.1
	defaultOversizeFactor      = 1.5
	defaultSimilarityThreshold = 0.1
	defaultMaxSimilarStudents  = 20
	defaultMinSharedEducators  = 2
	defaultHighRatingThreshold = 4
	defaultFallbackMinRating   = 4
	defaultSessionHistoryCap   = 50
	defaultInteractionCap      = 100
	defaultConfigName          = "default"

	defaultLimit = 10
)

func DefaultConfig() Config {
	return Config{
		CollaborativeWeight: defaultCollaborativeWeight,
		ContentWeight:       defaultContentWeight,
		PositionDecay:       defaultPositionDecay,
		OversizeFactor:      defaultOversizeFactor,

		SimilarityThreshold: defaultSimilarityThreshold,
		MaxSimilarStudents:  defaultMaxSimilarStudents,
		MinSharedEducators:  defaultMinSharedEducators,
		HighRatingThreshold: defaultHighRatingThreshold,

		Content: ContentWeights{
			TopicRelevance: 0.30,
			Expertise:      0.25,
			StyleMatch:     0.20,
			LevelMatch:     0.15,
			Availability:   0.10,
		},
		FallbackMinRating: defaultFallbackMinRating,

		SessionHistoryCap: defaultSessionHistoryCap,
		InteractionCap:    defaultInteractionCap,

		ConfigName: defaultConfigName,
	}
}
