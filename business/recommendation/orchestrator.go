package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmContent       Algorithm = "content"
	AlgorithmHybrid        Algorithm = "hybrid"
)

func ParseAlgorithm(s string) (Algorithm, bool) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return AlgorithmHybrid, true
	case AlgorithmCollaborative:
		return AlgorithmCollaborative, true
	case AlgorithmContent, "content-based":
		return AlgorithmContent, true
	case AlgorithmHybrid:
		return AlgorithmHybrid, true
	}
	return "", false
}

type Options struct {
	Limit              int            `json:"limit"`
	IncludeExplanation bool           `json:"include_explanation"`
	Algorithm          Algorithm      `json:"algorithm"`
	Filters            domain.Filters `json:"filters"`
}

func DefaultOptions() Options {
	return Options{
		Limit:              defaultLimit,
		IncludeExplanation: true,
		Algorithm:          AlgorithmHybrid,
	}
}

func (o Options) normalize() Options {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if alg, ok := ParseAlgorithm(string(o.Algorithm)); ok {
		o.Algorithm = alg
	} else {
		o.Algorithm = AlgorithmHybrid
	}
	return o
}

// Strategies is the set of recommenders used for one request.
type Strategies struct {
	Collaborative Recommender
	Content       Recommender
	Fallback      Recommender
}

type StrategyBuilder func(cfg Config) Strategies

const requestLogTimeout = 2 * time.Second

// Orchestrator is the entry point of the recommendation pipeline. It never
// returns an error from GenerateRecommendations; failures degrade to the
// cold-start list.
type Orchestrator struct {
	profiles     ProfileRepository
	interactions InteractionRepository
	features     FeatureSource
	cfgRepo      ConfigRepository
	cache        Cache
	cacheTTL     time.Duration
	availability AvailabilityChecker
	defaultCfg   Config

	buildStrategies StrategyBuilder

	pending sync.WaitGroup
}

func NewOrchestrator(
	profiles ProfileRepository,
	sessions SessionRepository,
	interactions InteractionRepository,
	cfgRepo ConfigRepository,
	cache Cache,
	cacheTTL time.Duration,
	defaultCfg Config,
) *Orchestrator {
	features := NewFeatureExtractor(profiles, sessions, interactions, defaultCfg)

	o := &Orchestrator{
		profiles:     profiles,
		interactions: interactions,
		features:     features,
		cfgRepo:      cfgRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		availability: NewEstimatedAvailability(),
		defaultCfg:   defaultCfg,
	}
	o.buildStrategies = func(cfg Config) Strategies {
		content := NewContentBasedRecommender(features, profiles, cfg)
		return Strategies{
			Collaborative: NewCollaborativeRecommender(sessions, profiles, cfg),
			Content:       content,
			Fallback:      NewFallbackRecommender(content),
		}
	}
	return o
}

func (o *Orchestrator) GenerateRecommendations(ctx context.Context, studentID uint, topic string, opts Options) []domain.ScoredCandidate {
	start := time.Now()
	opts = opts.normalize()
	topic = strings.TrimSpace(topic)
	tid := TraceIDFromContext(ctx)
	alg := string(opts.Algorithm)

	defer o.logRequest(ctx, studentID, topic, opts)

	key := cacheKey(studentID, topic, opts)
	if recs, ok := o.cached(ctx, key); ok {
		RecommendationsServedTotal.WithLabelValues(alg, "cache_hit").Inc()
		logger.Debug("recommendations_cache_hit", "trace_id", tid, "student_id", studentID, "key", key)
		return recs
	}

	cfg := o.loadConfig(ctx)
	strategies := o.buildStrategies(cfg)

	recs, degraded, err := o.run(ctx, strategies, cfg, studentID, topic, opts)
	if err != nil {
		logger.Error("recommendation_pipeline_failed",
			"trace_id", tid,
			"student_id", studentID,
			"algorithm", alg,
			"error", err,
		)
		RecommendationFallbacksTotal.WithLabelValues("pipeline_failed").Inc()
		RecommendationsServedTotal.WithLabelValues(alg, "fallback").Inc()
		return o.emergencyFallback(ctx, strategies.Fallback, topic, opts)
	}

	outcome := "computed"
	if degraded {
		outcome = "degraded"
	} else {
		o.store(ctx, key, recs)
	}
	RecommendationsServedTotal.WithLabelValues(alg, outcome).Inc()

	logger.Info("recommendations_generated",
		"trace_id", tid,
		"student_id", studentID,
		"algorithm", alg,
		"topic", topic,
		"count", len(recs),
		"degraded", degraded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recs
}

func (o *Orchestrator) run(
	ctx context.Context,
	s Strategies,
	cfg Config,
	studentID uint,
	topic string,
	opts Options,
) ([]domain.ScoredCandidate, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	var strategy Recommender
	switch opts.Algorithm {
	case AlgorithmCollaborative:
		strategy = s.Collaborative
	case AlgorithmContent:
		strategy = s.Content
	default:
		strategy = NewHybridRecommender(s.Collaborative, s.Content, cfg)
	}

	var (
		recs     []domain.ScoredCandidate
		degraded bool
		err      error
	)
	if d, ok := strategy.(degradableStrategy); ok {
		recs, degraded, err = d.generateDegradable(ctx, studentID, topic, opts.Limit)
	} else {
		recs, err = strategy.Generate(ctx, studentID, topic, opts.Limit)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s strategy: %w", strategy.Name(), err)
	}

	return o.finalize(ctx, recs, topic, opts), degraded, nil
}

// finalize filters, explains, annotates availability, ranks and truncates.
func (o *Orchestrator) finalize(ctx context.Context, recs []domain.ScoredCandidate, topic string, opts Options) []domain.ScoredCandidate {
	filtered := applyFilters(recs, opts.Filters)

	out := make([]domain.ScoredCandidate, 0, len(filtered))
	for _, rec := range filtered {
		c := derive(rec)
		if opts.IncludeExplanation {
			c.Explanation = explain(c, topic)
		}
		if o.availability != nil {
			a := o.availability.Check(ctx, c.Educator)
			c.Availability = &a
		}
		out = append(out, c)
	}

	sortByScore(out)
	return truncate(out, opts.Limit)
}

func (o *Orchestrator) emergencyFallback(ctx context.Context, fallback Recommender, topic string, opts Options) []domain.ScoredCandidate {
	if fallback == nil {
		return []domain.ScoredCandidate{}
	}
	recs, err := fallback.Generate(ctx, 0, topic, opts.Limit)
	if err != nil {
		logger.Error("recommendation_fallback_failed",
			"trace_id", TraceIDFromContext(ctx),
			"topic", topic,
			"error", err,
		)
		return []domain.ScoredCandidate{}
	}
	return o.finalize(ctx, recs, topic, opts)
}

// logRequest appends the request to the interaction log in the background.
// The write outlives the request context and its failure is only logged.
func (o *Orchestrator) logRequest(ctx context.Context, studentID uint, topic string, opts Options) {
	if o.interactions == nil {
		return
	}

	entry := &domain.Interaction{
		UserID:          studentID,
		InteractionType: domain.InteractionView,
		SearchQuery:     topic,
		Filters:         filtersContext(opts.Filters),
		Source:          domain.SourceRequestLog,
		IsRecommended:   true,
		AlgorithmUsed:   string(opts.Algorithm),
	}
	tid := TraceIDFromContext(ctx)
	detached := context.WithoutCancel(ctx)

	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("recommendation_request_log_panic", "trace_id", tid, "panic", r)
			}
		}()

		wctx, cancel := context.WithTimeout(detached, requestLogTimeout)
		defer cancel()
		if err := o.interactions.AppendInteraction(wctx, entry); err != nil {
			logger.Warn("recommendation_request_log_failed",
				"trace_id", tid,
				"student_id", studentID,
				"error", err,
			)
		}
	}()
}

// Drain waits for background request-log writes, or for ctx to end.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func filtersContext(f domain.Filters) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	if f.PriceRange != "" {
		m["price_range"] = f.PriceRange
	}
	if f.MinRating != nil {
		m["min_rating"] = *f.MinRating
	}
	if f.MinExperience != nil {
		m["min_experience"] = *f.MinExperience
	}
	if f.Language != "" {
		m["language"] = f.Language
	}
	return m
}

// ---- Cache ----

const cachePrefix = "reco"

// StudentCachePrefix is the key prefix shared by all cached lists of one
// student.
func StudentCachePrefix(studentID uint) string {
	return fmt.Sprintf("%s:%d:", cachePrefix, studentID)
}

// cacheKey is studentID, algorithm and topic in clear text plus a stable
// digest of the remaining options.
func cacheKey(studentID uint, topic string, opts Options) string {
	raw, _ := json.Marshal(struct {
		Limit       int            `json:"l"`
		Explanation bool           `json:"e"`
		Filters     domain.Filters `json:"f"`
	}{opts.Limit, opts.IncludeExplanation, opts.Filters})
	variant := uuid.NewSHA1(uuid.NameSpaceOID, raw)

	return fmt.Sprintf("%s%s:%s:%s", StudentCachePrefix(studentID), opts.Algorithm, topic, variant)
}

func (o *Orchestrator) cached(ctx context.Context, key string) ([]domain.ScoredCandidate, bool) {
	if o.cache == nil {
		return nil, false
	}
	recs, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("recommendation_cache_get_failed", "trace_id", TraceIDFromContext(ctx), "key", key, "error", err)
		return nil, false
	}
	return recs, ok
}

func (o *Orchestrator) store(ctx context.Context, key string, recs []domain.ScoredCandidate) {
	if o.cache == nil || o.cacheTTL <= 0 {
		return
	}
	if err := o.cache.Set(ctx, key, recs, o.cacheTTL); err != nil {
		logger.Warn("recommendation_cache_set_failed", "trace_id", TraceIDFromContext(ctx), "key", key, "error", err)
	}
}
