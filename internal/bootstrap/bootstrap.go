// Package bootstrap wires the recommendation service from config. Both the
// HTTP server and the CLI start from here.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"tutorMarket/business/recommendation"
	psqlRepo "tutorMarket/internal/repository/postgres"
	redisRepo "tutorMarket/internal/repository/redis"
	"tutorMarket/internal/repository/resilient"
	"tutorMarket/pkg/config"
	"tutorMarket/pkg/database"
	redisClient "tutorMarket/pkg/database/redis"
	"tutorMarket/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Orchestrator *recommendation.Orchestrator
	Configs      recommendation.ConfigRepository
}

// New connects to postgres (required) and redis (optional; without it
// results are simply not cached).
func New(cfg *config.Config) (*Service, error) {
	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database connected successfully")

	var cache recommendation.Cache
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := redisClient.NewRedisClient(pingCtx, cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, recommendation cache disabled", "error", err)
		rdb = nil
	} else {
		cache = redisRepo.NewRecommendationCache(rdb)
	}

	settings := resilient.SettingsFromConfig(cfg.Recommend)
	profiles := resilient.NewProfileStore(psqlRepo.NewUserRepository(db), settings)
	sessions := resilient.NewSessionStore(psqlRepo.NewSessionHistoryRepository(db), settings)
	interactions := resilient.NewInteractionStore(psqlRepo.NewInteractionRepository(db), settings)
	configs := resilient.NewConfigStore(psqlRepo.NewRecommenderConfigRepository(db), settings)

	orchestrator := recommendation.NewOrchestrator(
		profiles,
		sessions,
		interactions,
		configs,
		cache,
		cfg.Recommend.CacheTTL,
		recommendation.DefaultConfig(),
	)

	return &Service{
		DB:           db,
		Redis:        rdb,
		Orchestrator: orchestrator,
		Configs:      configs,
	}, nil
}

func (s *Service) Close() error {
	if err := redisClient.CloseRedisClient(s.Redis); err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}

	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.Close()
}
