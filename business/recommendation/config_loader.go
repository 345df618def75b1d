package recommendation

import (
	"context"

	"tutorMarket/domain"
	"tutorMarket/pkg/logger"
)

// loadConfig reads the named override row and lays it over the defaults.
// A missing row or a store error keeps the defaults.
func (o *Orchestrator) loadConfig(ctx context.Context) Config {
	if o.cfgRepo == nil {
		return o.defaultCfg
	}

	dbCfg, ok, err := o.cfgRepo.GetConfig(ctx, o.defaultCfg.ConfigName)
	if err != nil {
		logger.Warn("recommender_config_unavailable",
			"trace_id", TraceIDFromContext(ctx),
			"name", o.defaultCfg.ConfigName,
			"error", err,
		)
		return o.defaultCfg
	}
	if !ok {
		return o.defaultCfg
	}

	return applyOverrides(o.defaultCfg, dbCfg)
}

func applyOverrides(cfg Config, row domain.RecommenderConfig) Config {
	if row.CollaborativeWeight > 0 {
		cfg.CollaborativeWeight = row.CollaborativeWeight
	}
	if row.ContentWeight > 0 {
		cfg.ContentWeight = row.ContentWeight
	}
	if row.PositionDecay > 0 {
		cfg.PositionDecay = row.PositionDecay
	}
	if row.OversizeFactor >= 1 {
		cfg.OversizeFactor = row.OversizeFactor
	}
	if row.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = row.SimilarityThreshold
	}
	if row.MaxSimilarStudents > 0 {
		cfg.MaxSimilarStudents = row.MaxSimilarStudents
	}
	return cfg
}
